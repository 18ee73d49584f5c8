// Package smtp delivers mailer emails over SMTP submission.
//
// The URL scheme selects transport security: smtps:// dials TLS, smtp://
// requires STARTTLS before anything else is sent and smtp+plain:// stays
// unencrypted for relays on the same host.
//
// Each Send opens a session, authenticates with SASL PLAIN when credentials
// are configured, declares the envelope (From, then every To, CC and BCC
// address) and streams the RFC 5322 payload through DATA. Any failure is
// returned as *Error naming the session stage; nothing is retried.
//
//	sender, err := smtp.New(smtp.Config{
//		URL:      "smtps://smtp.gmail.com:465",
//		Username: "info@joshinkan.de",
//		Password: password,
//	})
package smtp

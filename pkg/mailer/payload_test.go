package mailer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joshinkan/mailserver/pkg/mailer"
)

func testEmail() *mailer.Email {
	return &mailer.Email{
		From:      mailer.User{Name: "Joshinkan", Email: "info@joshinkan.de"},
		To:        []mailer.User{{Name: "Sven Mkw", Email: "sven.mkw@gmail.com"}},
		CC:        []mailer.User{{Email: "cc@joshinkan.de"}},
		BCC:       []mailer.User{{Email: "bcc@joshinkan.de"}},
		Subject:   "Joshinkan Werder Karate - Anmeldung zum Probetraining",
		HTML:      "<p>Hallo Sven</p>",
		Date:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		MessageID: "fixed@joshinkan.de",
	}
}

func TestEmail_Payload(t *testing.T) {
	t.Parallel()

	payload := string(testEmail().Payload())

	head, body, ok := strings.Cut(payload, "\r\n\r\n")
	require.True(t, ok)

	require.Equal(t, []string{
		`To: "Sven Mkw" <sven.mkw@gmail.com>`,
		`From: "Joshinkan" <info@joshinkan.de>`,
		"Subject: Joshinkan Werder Karate - Anmeldung zum Probetraining",
		`Reply-To: "Joshinkan" <info@joshinkan.de>`,
		"Cc: <cc@joshinkan.de>",
		"Date: Fri, 01 Mar 2024 12:00:00 +0000",
		"Message-ID: <fixed@joshinkan.de>",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"Content-Transfer-Encoding: quoted-printable",
	}, strings.Split(head, "\r\n"))
	require.Equal(t, "<p>Hallo Sven</p>", body)
	require.NotContains(t, payload, "bcc@joshinkan.de")
}

func TestEmail_Payload_ReplyTo(t *testing.T) {
	t.Parallel()

	email := testEmail()
	email.ReplyTo = &mailer.User{Email: "trainer@joshinkan.de"}

	require.Contains(t, string(email.Payload()), "\r\nReply-To: <trainer@joshinkan.de>\r\n")
}

func TestEmail_Payload_EncodesNonASCII(t *testing.T) {
	t.Parallel()

	email := testEmail()
	email.Subject = "Grüße"
	email.HTML = "Liebe Grüße"

	payload := string(email.Payload())
	require.Contains(t, payload, "\r\nSubject: =?utf-8?q?Gr=C3=BC=C3=9Fe?=\r\n")
	require.True(t, strings.HasSuffix(payload, "\r\n\r\nLiebe Gr=C3=BC=C3=9Fe"))
}

func TestEmail_Payload_CustomHeaders(t *testing.T) {
	t.Parallel()

	email := testEmail()
	email.Headers = map[string]string{
		"x-request-id": "abc",
		"Subject":      "overridden",
		"X-Injected":   "a\r\nBcc: evil@example.com",
	}

	payload := string(email.Payload())
	require.Contains(t, payload, "\r\nX-Request-Id: abc\r\n")
	require.Contains(t, payload, "\r\nX-Injected: a  Bcc: evil@example.com\r\n")
	require.NotContains(t, payload, "overridden")
}

func TestEmail_Payload_GeneratesIDAndDate(t *testing.T) {
	t.Parallel()

	email := testEmail()
	email.MessageID = ""
	email.Date = time.Time{}

	payload := string(email.Payload())
	require.Regexp(t, `\r\nMessage-ID: <[0-9a-f-]{36}@joshinkan\.de>\r\n`, payload)
	require.Regexp(t, `\r\nDate: \w{3}, \d{2} \w{3} \d{4} `, payload)
}

func TestEmail_Payload_PanicsWithoutRecipient(t *testing.T) {
	t.Parallel()

	email := testEmail()
	email.To = nil
	require.Panics(t, func() { email.Payload() })
}

func TestEmail_Recipients(t *testing.T) {
	t.Parallel()

	require.Equal(t, []mailer.User{
		{Name: "Sven Mkw", Email: "sven.mkw@gmail.com"},
		{Email: "cc@joshinkan.de"},
		{Email: "bcc@joshinkan.de"},
	}, testEmail().Recipients())
}

func TestEmail_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, testEmail().Validate())

	tests := []struct {
		name   string
		modify func(*mailer.Email)
		want   error
	}{
		{"no recipient", func(e *mailer.Email) { e.To = nil }, mailer.ErrNoRecipient},
		{"no sender", func(e *mailer.Email) { e.From = mailer.User{} }, mailer.ErrNoSender},
		{"no subject", func(e *mailer.Email) { e.Subject = "" }, mailer.ErrNoSubject},
		{"no content", func(e *mailer.Email) { e.HTML = "" }, mailer.ErrNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			email := testEmail()
			tt.modify(email)
			require.ErrorIs(t, email.Validate(), tt.want)
		})
	}
}

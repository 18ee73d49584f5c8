// Package handlers declares the routes of the mail server.
//
// Registration serves POST /api/trial-registration: it validates the trial
// form, mails it to the club and sends an acknowledgement to the applicant.
// Debug serves GET /api/print-env, which lists the request parameters and is
// only reachable when the server runs in debug mode.
//
// Mail bodies are markdown templates embedded from emails/; NewRenderer
// returns a renderer for them.
package handlers

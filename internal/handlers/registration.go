package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/joshinkan/mailserver/internal"
	"github.com/joshinkan/mailserver/pkg/mailer"
)

// Response messages of the registration endpoint.
const (
	MessageSent        = "Email sent."
	MessageInvalidForm = "Form data could not be parsed."
)

// Registration handles the trial registration form.
type Registration struct{}

// NewRegistration creates the registration handler.
func NewRegistration() *Registration {
	return &Registration{}
}

// Routes implements internal.Handler.
func (h *Registration) Routes(r internal.Router) {
	r.POST("/api/trial-registration", h.register)
}

// register validates the form, then sends the registration mail followed by
// the acknowledgement. The acknowledgement is only attempted when the
// registration mail went out.
func (h *Registration) register(c internal.Context) internal.Response {
	data, err := c.FormData()
	if err != nil {
		return internal.ErrorResponse(c, internal.ErrBadRequest(MessageInvalidForm, internal.WithError(err)))
	}

	form, err := parseRegistration(data)
	if err != nil {
		return internal.ErrorResponse(c, internal.ErrBadRequest(MessageInvalidForm, internal.WithError(err)))
	}
	form.ContactURL = c.SiteURL() + "/kontakt"

	applicant, err := mailer.NewUser(form.FirstName+" "+form.LastName, form.Email)
	if err != nil {
		return internal.ErrorResponse(c, internal.ErrBadRequest(MessageInvalidForm, internal.WithError(err)))
	}

	view := form.markdown()

	registrationTemplate, acknowledgementTemplate := registrationAdult, acknowledgementAdult
	if form.hasChildren() {
		registrationTemplate, acknowledgementTemplate = registrationChildren, acknowledgementChildren
	}

	server := c.Server()
	sender := server.Sender

	var club []mailer.User
	if server.ReplyTo != nil {
		club = []mailer.User{*server.ReplyTo}
	}

	if err := send(c, mailer.SendParams{
		To:       club,
		Template: registrationTemplate,
		Data:     view,
		Layout:   Layout,
		From:     &sender,
		ReplyTo:  server.ReplyTo,
		CC:       server.CC,
		BCC:      server.BCC,
		Tags:     mailer.SimpleTags("registration"),
	}); err != nil {
		return sendFailed(c, "registration", err)
	}

	if err := send(c, mailer.SendParams{
		To:       []mailer.User{applicant},
		Template: acknowledgementTemplate,
		Data:     view,
		Layout:   Layout,
		From:     &sender,
		ReplyTo:  server.ReplyTo,
		CC:       server.CC,
		BCC:      append(slices.Clone(server.BCC), sender),
		Tags:     mailer.SimpleTags("acknowledgement"),
	}); err != nil {
		return sendFailed(c, "acknowledgement", err)
	}

	c.LogInfo("trial registration sent", slog.Int("children", len(form.Children)))
	return internal.Message(http.StatusOK, MessageSent)
}

// send reports a panic in the mail stack as an error.
func send(c internal.Context, params mailer.SendParams) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("send mail: panic: %v", r)
		}
	}()
	return c.Server().Mailer.Send(c, params)
}

// sendFailed tells a failed delivery from any other failure, such as a
// template that does not render or a missing recipient.
func sendFailed(c internal.Context, mail string, err error) internal.Response {
	msg := "Unknown error while sending " + mail + " email."
	if errors.Is(err, mailer.ErrSendFailed) {
		msg = "Failed to send " + mail + " email."
	}
	return internal.ErrorResponse(c, internal.ErrInternal(msg, internal.WithError(err)))
}

package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joshinkan/mailserver/pkg/formdata"
	"github.com/joshinkan/mailserver/pkg/mailer"
	"github.com/joshinkan/mailserver/pkg/sanitizer"
)

// Form fields of the trial registration.
const (
	fieldFirstName      = "first_name"
	fieldLastName       = "last_name"
	fieldEmail          = "email"
	fieldPhone          = "phone"
	fieldAge            = "age"
	fieldPrivacy        = "privacy"
	fieldParentsConsent = "parents_consent"
	fieldChildFirstName = "child_first_name"
	fieldChildLastName  = "child_last_name"
	fieldChildAge       = "child_age"
)

const checkboxOn = "on"

var errInvalidForm = errors.New("invalid registration form")

// registration is the validated form. It is also the data of every mail
// template.
type registration struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	// Age is the applicant's age for adults. It is not required to be a
	// number when children are registered.
	Age      string
	Children []child

	// ContactURL is set by the handler from the request host.
	ContactURL string
}

type child struct {
	Number    int
	FirstName string
	LastName  string
	Age       string
}

func (r registration) hasChildren() bool {
	return len(r.Children) > 0
}

// ChildNames lists the children's first names as "A, B und C".
func (r registration) ChildNames() string {
	names := make([]string, len(r.Children))
	for i, c := range r.Children {
		names[i] = c.FirstName
	}
	return joinNames(names)
}

// markdown returns a copy with every submitted value escaped, so the values
// render as literal text in the markdown mail templates.
func (r registration) markdown() registration {
	out := r
	out.FirstName = sanitizer.EscapeMarkdown(r.FirstName)
	out.LastName = sanitizer.EscapeMarkdown(r.LastName)
	out.Email = sanitizer.EscapeMarkdown(r.Email)
	out.Phone = sanitizer.EscapeMarkdown(r.Phone)
	out.Age = sanitizer.EscapeMarkdown(r.Age)
	out.Children = make([]child, len(r.Children))
	for i, c := range r.Children {
		out.Children[i] = child{
			Number:    c.Number,
			FirstName: sanitizer.EscapeMarkdown(c.FirstName),
			LastName:  sanitizer.EscapeMarkdown(c.LastName),
			Age:       sanitizer.EscapeMarkdown(c.Age),
		}
	}
	return out
}

// parseRegistration validates the submitted form. Checks run in a fixed
// order and the first failure is returned.
func parseRegistration(data formdata.Data) (registration, error) {
	var (
		form registration
		err  error
	)

	hasChildren := data.Has(fieldChildFirstName) || data.Has(fieldChildLastName) || data.Has(fieldChildAge)

	if form.FirstName, err = requirePlain(data, fieldFirstName, true); err != nil {
		return registration{}, err
	}
	if form.LastName, err = requirePlain(data, fieldLastName, true); err != nil {
		return registration{}, err
	}
	if form.Phone, err = requirePlain(data, fieldPhone, true); err != nil {
		return registration{}, err
	}
	if form.Email, err = requirePlain(data, fieldEmail, false); err != nil {
		return registration{}, err
	}
	if !mailer.IsValidEmail(form.Email) {
		return registration{}, fmt.Errorf("%w: %s is not a valid email address", errInvalidForm, fieldEmail)
	}
	if form.Age, err = requirePlain(data, fieldAge, false); err != nil {
		return registration{}, err
	}
	if err := requireChecked(data, fieldPrivacy); err != nil {
		return registration{}, err
	}

	if hasChildren {
		if err := requireChecked(data, fieldParentsConsent); err != nil {
			return registration{}, err
		}
		firstNames, err := requireList(data, fieldChildFirstName)
		if err != nil {
			return registration{}, err
		}
		lastNames, err := requireList(data, fieldChildLastName)
		if err != nil {
			return registration{}, err
		}
		ages, err := requireList(data, fieldChildAge)
		if err != nil {
			return registration{}, err
		}

		firstNames = sanitizer.StripHTMLAll(firstNames)
		lastNames = sanitizer.StripHTMLAll(lastNames)
		ages = sanitizer.StripHTMLAll(ages)

		// the first names decide how many children there are
		form.Children = make([]child, len(firstNames))
		for i, name := range firstNames {
			form.Children[i] = child{
				Number:    i + 1,
				FirstName: name,
				LastName:  at(lastNames, i),
				Age:       at(ages, i),
			}
		}
	} else {
		age, err := strconv.Atoi(form.Age)
		if err != nil {
			return registration{}, fmt.Errorf("%w: %s is not a number", errInvalidForm, fieldAge)
		}
		form.Age = strconv.Itoa(age)
	}

	form.FirstName = sanitizer.StripHTML(form.FirstName)
	form.LastName = sanitizer.StripHTML(form.LastName)
	form.Phone = sanitizer.StripHTML(form.Phone)
	form.Age = sanitizer.StripHTML(form.Age)
	return form, nil
}

func requirePlain(data formdata.Data, name string, nonEmpty bool) (string, error) {
	v, ok := data.Plain(name)
	if !ok {
		return "", fmt.Errorf("%w: %s is missing", errInvalidForm, name)
	}
	if nonEmpty && v == "" {
		return "", fmt.Errorf("%w: %s is empty", errInvalidForm, name)
	}
	return v, nil
}

func requireChecked(data formdata.Data, name string) error {
	if v, ok := data.Plain(name); !ok || v != checkboxOn {
		return fmt.Errorf("%w: %s is not checked", errInvalidForm, name)
	}
	return nil
}

func requireList(data formdata.Data, name string) ([]string, error) {
	v, ok := data.List(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a list", errInvalidForm, name)
	}
	return v, nil
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// joinNames joins names the way German lists them: "A", "A und B",
// "A, B und C".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	last := len(names) - 1
	return strings.Join(names[:last], ", ") + " und " + names[last]
}

package mailer

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	userRegex  = regexp.MustCompile(`^(?P<name>[^<>]+)?(?:\s*<(?P<email>.+)>\s*)?$`)

	userNameGroup  = userRegex.SubexpIndex("name")
	userEmailGroup = userRegex.SubexpIndex("email")
)

// User is a mailbox with an optional display name.
type User struct {
	Name  string
	Email string
}

// IsValidEmail reports whether email has the shape local@domain.tld.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// NewUser validates email and returns a User.
func NewUser(name, email string) (User, error) {
	if !IsValidEmail(email) {
		return User{}, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return User{Name: strings.TrimSpace(name), Email: email}, nil
}

// ParseUser parses "Name <email>", "<email>" or a bare "email".
// A description that does not have one of these shapes fails with
// ErrUnexpectedFormat; a well-shaped one with a bad address fails with
// ErrInvalidEmail.
func ParseUser(description string) (User, error) {
	m := userRegex.FindStringSubmatchIndex(description)
	if m == nil {
		return User{}, fmt.Errorf("%w: %q", ErrUnexpectedFormat, description)
	}
	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return description[m[2*i]:m[2*i+1]], true
	}

	name, hasName := group(userNameGroup)
	email, hasEmail := group(userEmailGroup)

	switch {
	case !hasEmail && hasName:
		// a bare address
		return NewUser("", strings.TrimSpace(name))
	case !hasEmail:
		return User{}, fmt.Errorf("%w: %q", ErrUnexpectedFormat, description)
	default:
		return NewUser(name, email)
	}
}

// ParseUsers parses every description, failing on the first invalid one.
func ParseUsers(descriptions []string) ([]User, error) {
	users := make([]User, 0, len(descriptions))
	for _, d := range descriptions {
		u, err := ParseUser(d)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// String returns "Name <email>", or "<email>" when there is no name.
func (u User) String() string {
	if u.Name == "" {
		return "<" + u.Email + ">"
	}
	return u.Name + " <" + u.Email + ">"
}

// Address formats u for a message header, encoding non-ASCII names.
func (u User) Address() string {
	return (&mail.Address{Name: u.Name, Address: u.Email}).String()
}

// IsZero reports whether u has no address.
func (u User) IsZero() bool {
	return u.Email == ""
}

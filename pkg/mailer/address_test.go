package mailer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshinkan/mailserver/pkg/mailer"
)

func TestParseUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		description string
		want        mailer.User
	}{
		{"John Smith <john@example.com>", mailer.User{Name: "John Smith", Email: "john@example.com"}},
		{"John Smith    <john@example.com>      ", mailer.User{Name: "John Smith", Email: "john@example.com"}},
		{"<john@example.com>", mailer.User{Email: "john@example.com"}},
		{"john@example.com", mailer.User{Email: "john@example.com"}},
		{" john@example.com ", mailer.User{Email: "john@example.com"}},
		{"Joshinkan Werder <info@joshinkan.de>", mailer.User{Name: "Joshinkan Werder", Email: "info@joshinkan.de"}},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			t.Parallel()

			got, err := mailer.ParseUser(tt.description)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseUser_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, description := range []string{"John Smith <john@example.com>", "<john@example.com>"} {
		user, err := mailer.ParseUser(description)
		require.NoError(t, err)
		require.Equal(t, description, user.String())
	}
}

func TestParseUser_UnexpectedFormat(t *testing.T) {
	t.Parallel()

	for _, description := range []string{
		"",
		"<missing",
		"missing>",
		"John Smith <john@example.com> shouldnotbehere",
		"Jo>hn Smith <john@example.com>",
	} {
		_, err := mailer.ParseUser(description)
		require.ErrorIs(t, err, mailer.ErrUnexpectedFormat, description)
	}
}

func TestParseUser_InvalidEmail(t *testing.T) {
	t.Parallel()

	for _, description := range []string{
		"John Smith",
		"invalid@invalid",
		"<John Smith>",
		"<invalid@i.i>",
		"Jo<hn Smith <john@example.com>",
		"J<o>hn Smith <john@example.com>",
	} {
		_, err := mailer.ParseUser(description)
		require.ErrorIs(t, err, mailer.ErrInvalidEmail, description)
		require.NotErrorIs(t, err, mailer.ErrUnexpectedFormat, description)
	}
}

func TestParseUsers(t *testing.T) {
	t.Parallel()

	users, err := mailer.ParseUsers([]string{"a@example.com", "B <b@example.com>"})
	require.NoError(t, err)
	require.Equal(t, []mailer.User{
		{Email: "a@example.com"},
		{Name: "B", Email: "b@example.com"},
	}, users)

	_, err = mailer.ParseUsers([]string{"a@example.com", "broken"})
	require.ErrorIs(t, err, mailer.ErrInvalidEmail)
}

func TestIsValidEmail(t *testing.T) {
	t.Parallel()

	require.True(t, mailer.IsValidEmail("sven.mkw@gmail.com"))
	require.True(t, mailer.IsValidEmail("a+b@sub.example.org"))
	require.False(t, mailer.IsValidEmail("a@b"))
	require.False(t, mailer.IsValidEmail("a@b.c"))
	require.False(t, mailer.IsValidEmail("a b@example.com"))
	require.False(t, mailer.IsValidEmail(""))
}

func TestUser_Address(t *testing.T) {
	t.Parallel()

	require.Equal(t, `"John Smith" <john@example.com>`, mailer.User{Name: "John Smith", Email: "john@example.com"}.Address())
	require.Equal(t, "<john@example.com>", mailer.User{Email: "john@example.com"}.Address())
	require.Equal(t, "=?utf-8?q?J=C3=BCrgen?= <j@example.com>", mailer.User{Name: "Jürgen", Email: "j@example.com"}.Address())
}

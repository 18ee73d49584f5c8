package handlers_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshinkan/mailserver/internal"
	"github.com/joshinkan/mailserver/internal/handlers"
	"github.com/joshinkan/mailserver/pkg/formdata"
	"github.com/joshinkan/mailserver/pkg/mailer"
	"github.com/joshinkan/mailserver/pkg/mailer/mailertest"
)

const boundary = "----WebKitFormBoundaryiB5iskbmcAfH1zPo"

var (
	sender  = mailer.User{Name: "Joshinkan Werder Karate", Email: "info@joshinkan.de"}
	replyTo = mailer.User{Name: "Joshinkan Team", Email: "team@joshinkan.de"}
	cc      = mailer.User{Email: "cc@joshinkan.de"}
	bcc     = mailer.User{Email: "bcc@joshinkan.de"}
)

type option func(*internal.ServerContext)

func withoutReplyTo() option {
	return func(sc *internal.ServerContext) { sc.ReplyTo = nil }
}

func withDebug() option {
	return func(sc *internal.ServerContext) { sc.Debug = true }
}

func newServer(t *testing.T, rec *mailertest.Recorder, opts ...option) *internal.ServerContext {
	t.Helper()

	m := mailer.New(rec, handlers.NewRenderer(), mailer.Config{
		From:          sender,
		DefaultLayout: handlers.Layout,
	})
	reply := replyTo
	sc := internal.ServerContext{
		Domain:    "https://joshinkan.de",
		Sender:    sender,
		ReplyTo:   &reply,
		CC:        []mailer.User{cc},
		BCC:       []mailer.User{bcc},
		Mailer:    m,
		Linebreak: formdata.LF,
	}
	for _, opt := range opts {
		opt(&sc)
	}
	return internal.NewServerContext(sc)
}

// serve runs one request through an app with every handler registered and
// returns the status and the serialized body. extra overrides request
// parameters as name/value pairs.
func serve(t *testing.T, server *internal.ServerContext, method, path string, body []byte, extra ...[2]string) (int, string) {
	t.Helper()

	app := internal.New(server, internal.WithHandlers(handlers.NewRegistration(), handlers.NewDebug()))
	params := map[string]string{
		internal.ParamRequestMethod: method,
		internal.ParamScriptName:    path,
		internal.ParamContentType:   "multipart/form-data; boundary=" + boundary,
		internal.ParamContentLength: strconv.Itoa(len(body)),
		internal.ParamHTTPHost:      "joshinkan.de",
		internal.ParamHTTPS:         "on",
	}
	for _, kv := range extra {
		params[kv[0]] = kv[1]
	}
	c := internal.NewContext(context.Background(), server, params, body, nil)

	var out bytes.Buffer
	rw := internal.NewResponseWriter(&out)
	require.NoError(t, rw.Write(app.Handle(c)))

	_, respBody, ok := strings.Cut(out.String(), "\r\n\r\n")
	require.True(t, ok)
	return rw.Status(), respBody
}

func register(t *testing.T, server *internal.ServerContext, body []byte) (int, string) {
	t.Helper()
	return serve(t, server, "POST", "/api/trial-registration", body)
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return body
}

type field struct {
	name  string
	value string
}

func multipartBody(fields ...field) []byte {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString("--" + boundary + "\n")
		b.WriteString(`Content-Disposition: form-data; name="` + f.name + "\"\n\n")
		b.WriteString(f.value + "\n")
	}
	b.WriteString("--" + boundary + "--\n")
	return []byte(b.String())
}

func adultFields() []field {
	return []field{
		{"first_name", "sven"},
		{"last_name", "mkw"},
		{"email", "sven.mkw@gmail.com"},
		{"phone", "123456789"},
		{"age", "23"},
		{"privacy", "on"},
	}
}

func childFields(children ...[3]string) []field {
	fields := []field{
		{"first_name", "Dad"},
		{"last_name", "Fam"},
		{"email", "fam@mail.com"},
		{"phone", "049127495"},
		{"age", ""},
		{"privacy", "on"},
		{"parents_consent", "on"},
	}
	for _, c := range children {
		fields = append(fields,
			field{"child_first_name[]", c[0]},
			field{"child_last_name[]", c[1]},
			field{"child_age[]", c[2]},
		)
	}
	return fields
}

func with(fields []field, name, value string) []field {
	out := make([]field, 0, len(fields))
	for _, f := range fields {
		if f.name == name {
			f.value = value
		}
		out = append(out, f)
	}
	return out
}

func without(fields []field, name string) []field {
	out := make([]field, 0, len(fields))
	for _, f := range fields {
		if f.name != name {
			out = append(out, f)
		}
	}
	return out
}

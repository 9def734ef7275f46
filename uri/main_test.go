package uri_test

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/ghettovoice/gouri/uri"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustParse(tb testing.TB, s string) *uri.URI {
	tb.Helper()

	u, err := uri.Parse(s)
	if err != nil {
		tb.Fatalf("uri.Parse(%q) error = %v, want nil", s, err)
	}
	return u
}

type components struct {
	Scheme   string
	User     string
	Password string
	Host     string
	Port     int
	HasPort  bool
	Path     string
	Segments []string
	Query    string
	Fragment string
}

func componentsOf(u *uri.URI) components {
	port, hasPort := u.Port()
	return components{
		Scheme:   u.Scheme(),
		User:     u.User(),
		Password: u.Password(),
		Host:     u.Host(),
		Port:     port,
		HasPort:  hasPort,
		Path:     u.Path(),
		Segments: u.Segments(),
		Query:    u.RawQuery(nil),
		Fragment: u.Fragment(),
	}
}

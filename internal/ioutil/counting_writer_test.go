package ioutil_test

import (
	"bytes"
	"errors"
	"testing"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/ioutil"
)

type errorWriter struct {
	failAfter int
	written   int
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	if ew.written >= ew.failAfter {
		return 0, errtrace.Wrap(errors.New("write failed"))
	}
	n = len(p)
	if ew.written+n > ew.failAfter {
		n = ew.failAfter - ew.written
	}
	ew.written += n
	if n < len(p) {
		return n, errtrace.Wrap(errors.New("write failed"))
	}
	return n, nil
}

func TestCountingWriter(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		write func(cw *ioutil.CountingWriter)
		want  string
	}{
		{"write", func(cw *ioutil.CountingWriter) { cw.Write([]byte("http://")) }, "http://"}, //nolint:errcheck
		{
			"write strings",
			func(cw *ioutil.CountingWriter) { cw.WriteString("http", "://", "example.com") }, //nolint:errcheck
			"http://example.com",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			cw := ioutil.GetCountingWriter(&buf)
			defer ioutil.FreeCountingWriter(cw)

			c.write(cw)
			num, err := cw.Result()
			if err != nil {
				t.Fatalf("cw.Result() error = %v, want nil", err)
			}
			if got, want := buf.String(), c.want; got != want {
				t.Errorf("written = %q, want %q", got, want)
			}
			if got, want := num, len(c.want); got != want {
				t.Errorf("cw.Result() num = %d, want %d", got, want)
			}
		})
	}
}

func TestCountingWriter_ErrorIsSticky(t *testing.T) {
	t.Parallel()

	cw := ioutil.GetCountingWriter(&errorWriter{failAfter: 5})
	defer ioutil.FreeCountingWriter(cw)

	if n, err := cw.WriteString("hello"); err != nil || n != 5 {
		t.Fatalf("cw.WriteString(%q) = (%d, %v), want (5, nil)", "hello", n, err)
	}
	if _, err := cw.WriteString(" ", "world"); err == nil {
		t.Fatal("cw.WriteString() error = nil, want error")
	}
	if n, err := cw.Write([]byte("test")); err == nil || n != 0 {
		t.Errorf("cw.Write() = (%d, %v), want (0, error)", n, err)
	}

	if num, err := cw.Result(); err == nil || num != 5 {
		t.Errorf("cw.Result() = (%d, %v), want (5, error)", num, err)
	}
}

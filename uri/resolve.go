package uri

import (
	"slices"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/grammar"
)

// Resolve resolves the reference against u as the base URI, RFC 3986 Section 5.2.2.
//
// The non-strict variant of the algorithm is used: a reference with the same scheme as the base
// is resolved as a relative one. The reference is parsed in the query mode of u.
// An empty reference returns a copy of u without the fragment.
func (u *URI) Resolve(ref string) (*URI, error) {
	base := u.clone()
	r, refPath, err := parseReference(ref, base.rawQuery)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if r.scheme == base.scheme {
		r.scheme = ""
	}

	t := r.clone()
	if r.Authority(nil) != "" {
		t.setPath(r.path)
		t.query = r.query.Clone()
	} else {
		switch {
		case refPath == "":
			t.path, t.segments = base.path, slices.Clone(base.segments)
			if r.query.Len() > 0 {
				t.query = r.query.Clone()
			} else {
				t.query = base.query.Clone()
			}
		case strings.HasPrefix(refPath, "/"):
			t.path, t.segments = r.path, slices.Clone(r.segments)
			t.query = r.query.Clone()
		default:
			t.setPath(mergePaths(base, refPath))
			t.query = r.query.Clone()
		}
		t.user, t.password, t.host, t.port = base.user, base.password, base.host, base.port
	}

	t.scheme = base.scheme
	t.fragment = r.fragment
	return t, nil
}

// parseReference parses the reference and returns its path as written,
// before "./" and "../" prefixes are anchored by FilterPath.
func parseReference(ref string, raw bool) (*URI, string, error) {
	r := New()
	r.rawQuery = raw
	if ref == "" {
		return r, "", nil
	}

	p, err := grammar.ParseParts(ref)
	if err != nil {
		return nil, "", errtrace.Wrap(err)
	}
	r.applyParts(p)
	return r, p.Path.Or(""), nil
}

// ResolveReference parses the base URI and resolves the reference against it.
// See [URI.Resolve].
func ResolveReference(base, ref string) (*URI, error) {
	b, err := Parse(base)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return errtrace.Wrap2(b.Resolve(ref))
}

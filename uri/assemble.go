package uri

import (
	"io"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/ioutil"
	"github.com/ghettovoice/gouri/internal/util"
)

// CreateURIString assembles a URI string from already encoded components.
//
// A non-empty scheme is followed by "://", the path is separated from the preceding part
// by exactly one slash, query and fragment get their delimiters only when non-empty.
// No escaping is performed.
func CreateURIString(scheme, authority, path, query, fragment string) string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	writeURIString(sb, scheme, authority, path, query, fragment) //nolint:errcheck
	return sb.String()
}

func writeURIString(w io.Writer, scheme, authority, path, query, fragment string) (int, error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)

	var endsWithSlash bool
	if scheme != "" {
		cw.WriteString(scheme, "://")
		endsWithSlash = true
	}
	if authority != "" {
		cw.WriteString(authority)
		endsWithSlash = strings.HasSuffix(authority, "/")
	}
	if path != "" {
		path = strings.TrimLeft(path, "/")
		if !endsWithSlash {
			cw.WriteString("/")
		}
		cw.WriteString(path)
	}
	if query != "" {
		cw.WriteString("?", query)
	}
	if fragment != "" {
		cw.WriteString("#", fragment)
	}
	return errtrace.Wrap2(cw.Result())
}

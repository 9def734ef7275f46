package uri

import (
	"slices"
	"strings"

	"github.com/ghettovoice/gouri/internal/grammar"
)

// RemoveDotSegments resolves "." and ".." segments of the path as described in RFC 3986 Section 5.2.4.
//
// It works on the string only: ".." above the first segment is dropped, empty segments are
// collapsed. A leading slash and a trailing slash of the input are kept.
func RemoveDotSegments(path string) string {
	if path == "" || path == "/" {
		return path
	}

	toks := strings.Split(path, "/")
	if toks[0] == "" {
		toks = toks[1:]
	}

	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		switch tok {
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case ".", "":
		default:
			out = append(out, tok)
		}
	}

	res := strings.Trim(strings.Join(out, "/"), "/ ")
	if strings.HasPrefix(path, "/") {
		res = "/" + res
	}
	if res != "/" && strings.HasSuffix(path, "/") {
		res += "/"
	}
	return res
}

// FilterPath normalizes the path: percent-decodes it, removes dot segments and
// re-encodes characters that are not allowed in a path.
// Valid percent-encoded triplets are never encoded twice.
//
// A path starting with "./" or "../" is anchored with a leading slash.
func FilterPath(path string) string {
	if path == "" {
		return ""
	}

	res := RemoveDotSegments(grammar.Unescape(path))
	if (strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../")) && !strings.HasPrefix(res, "/") {
		res = "/" + res
	}
	return grammar.Escape(res, shouldEscapePathChar)
}

func shouldEscapePathChar(c byte) bool { return !grammar.IsPathChar(c) }

// splitSegments returns non-empty path tokens.
func splitSegments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// joinSegments is the inverse of splitSegments keeping the leading and trailing slash of the origin path.
func joinSegments(origin string, segs []string) string {
	path := strings.Join(segs, "/")
	if strings.HasPrefix(origin, "/") {
		path = "/" + path
	}
	if strings.HasSuffix(origin, "/") && path != "/" && path != "" {
		path += "/"
	}
	return path
}

// mergePaths merges the relative reference path with the base path, RFC 3986 Section 5.2.3:
// the last segment of the base path is replaced by the reference path.
// The result is not normalized.
func mergePaths(base *URI, refPath string) string {
	if base.Authority(nil) != "" && base.path == "" {
		return "/" + strings.TrimLeft(refPath, "/ ")
	}

	toks := strings.Split(base.path, "/")
	abs := toks[0] == "" && len(toks) > 1
	if toks[0] == "" {
		toks = toks[1:]
	}
	if len(toks) > 0 {
		toks = toks[:len(toks)-1]
	}
	toks = append(slices.Clip(toks), refPath)

	merged := strings.Join(toks, "/")
	if abs {
		merged = "/" + merged
	}
	return merged
}

package grammar

import (
	"bytes"

	"github.com/ghettovoice/gouri/internal/constraints"
)

// Unescape unescapes s by converting each 3-byte encoded substring of the form "% HEXDIG HEXDIG" into the hex-decoded byte.
// Malformed sequences are left as is.
func Unescape[T constraints.Byteseq](s T) T {
	if len(s) == 0 || !hasByte(s, '%') {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		} else {
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// UnescapeForm is like [Unescape] but also decodes "+" as space,
// as done for application/x-www-form-urlencoded data.
func UnescapeForm[T constraints.Byteseq](s T) T {
	if len(s) == 0 || !hasByte(s, '%') && !hasByte(s, '+') {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '+':
			b.WriteByte(' ')
		case s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// Escape escapes s by replacing each char matched by shouldEscape callback to the hex form "% HEXDIG HEXDIG".
// Valid percent-encoded triplets are copied unchanged, a stray "%" is escaped.
func Escape[T constraints.Byteseq](s T, shouldEscape func(c byte) bool) T {
	if len(s) == 0 {
		return s
	}

	if shouldEscape == nil {
		shouldEscape = func(c byte) bool { return !IsUnreserved(c) }
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]):
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			b.WriteByte(s[i+2])
			i += 2
		case s[i] == '%' || shouldEscape(s[i]):
			writeEscaped(&b, s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// EscapeAll is like [Escape] but treats every "%" as data.
func EscapeAll[T constraints.Byteseq](s T, shouldEscape func(c byte) bool) T {
	if len(s) == 0 {
		return s
	}

	if shouldEscape == nil {
		shouldEscape = func(c byte) bool { return !IsUnreserved(c) }
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' || shouldEscape(s[i]) {
			writeEscaped(&b, s[i])
		} else {
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

func writeEscaped(b *bytes.Buffer, c byte) {
	b.WriteByte('%')
	b.WriteByte(upperhex[c>>4])
	b.WriteByte(upperhex[c&15])
}

func hasByte[T constraints.Byteseq](s T, c byte) bool {
	for i := range len(s) {
		if s[i] == c {
			return true
		}
	}
	return false
}

const upperhex = "0123456789ABCDEF"

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// IsAlphanumChar checks ALPHA / DIGIT.
func IsAlphanumChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// IsUnreserved checks RFC 3986 unreserved rule.
func IsUnreserved(c byte) bool {
	return IsAlphanumChar(c) || c == '-' || c == '.' || c == '_' || c == '~'
}

var pathChars = map[byte]bool{
	':': true,
	'@': true,
	'&': true,
	'=': true,
	'+': true,
	'$': true,
	',': true,
	'/': true,
	';': true,
}

// IsPathChar reports whether c may appear unescaped in a normalized path.
func IsPathChar(c byte) bool {
	return pathChars[c] || IsUnreserved(c)
}

var queryChars = map[byte]bool{
	'!':  true,
	'$':  true,
	'\'': true,
	'(':  true,
	')':  true,
	'*':  true,
	',':  true,
	';':  true,
	':':  true,
	'@':  true,
	'/':  true,
	'?':  true,
}

// IsQueryChar reports whether c may appear unescaped in an encoded query value.
// Pair and key-value delimiters are not included.
func IsQueryChar(c byte) bool {
	return queryChars[c] || IsUnreserved(c)
}

// IsQueryKeyChar is like [IsQueryChar] but also allows square brackets of array keys.
func IsQueryKeyChar(c byte) bool {
	return c == '[' || c == ']' || IsQueryChar(c)
}

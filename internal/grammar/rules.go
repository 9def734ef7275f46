package grammar

import "github.com/ghettovoice/abnf"

func lit(s string) abnf.Operator { return abnf.Literal(`"`+s+`"`, []byte(s)) }

func byteRange(key string, lo, hi byte) abnf.Operator {
	return abnf.Range(key, []byte{lo}, []byte{hi})
}

// charsExcept matches a single visible byte (SP included, CTLs excluded) or any byte
// of a multi-byte UTF-8 sequence, except the bytes listed in excl.
func charsExcept(key, excl string) abnf.Operator {
	skip := make(map[byte]bool, len(excl))
	for i := range len(excl) {
		skip[excl[i]] = true
	}

	var ops []abnf.Operator
	add := func(lo, hi int) {
		start := -1
		for c := lo; c <= hi+1; c++ {
			if c <= hi && !skip[byte(c)] {
				if start < 0 {
					start = c
				}
				continue
			}
			if start >= 0 {
				ops = append(ops, byteRange(key+"-range", byte(start), byte(c-1)))
				start = -1
			}
		}
	}
	add(0x20, 0x7e)
	add(0x80, 0xff)
	return abnf.Alt(key, ops[0], ops[1:]...)
}

var (
	alpha = abnf.Alt("ALPHA", byteRange("%x41-5A", 'A', 'Z'), byteRange("%x61-7A", 'a', 'z'))
	digit = byteRange("DIGIT", '0', '9')

	// scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )
	scheme = abnf.Concat("scheme",
		alpha,
		abnf.Repeat0Inf("*scheme-char", abnf.Alt("scheme-char", alpha, digit, lit("+"), lit("-"), lit("."))),
	)

	// userinfo = user [ ":" password ]
	userinfo = abnf.Concat("userinfo",
		abnf.Repeat0Inf("user", charsExcept("user-char", ":@/?#[]")),
		abnf.Optional(`[":" password]`, abnf.Concat(`":" password`,
			lit(":"),
			abnf.Repeat0Inf("password", charsExcept("password-char", "@/?#[]")),
		)),
	)

	// host = IP-literal / reg-name
	host = abnf.Alt("host",
		abnf.Concat("IP-literal", lit("["), abnf.Repeat1Inf("ip-literal", charsExcept("ip-literal-char", "@/?#[]")), lit("]")),
		abnf.Repeat0Inf("reg-name", charsExcept("reg-name-char", ":@/?#[]")),
	)

	// authority = [ userinfo "@" ] host [ ":" port ]
	authority = abnf.Concat("authority",
		abnf.Optional(`[userinfo "@"]`, abnf.Concat(`userinfo "@"`, userinfo, lit("@"))),
		host,
		abnf.Optional(`[":" port]`, abnf.Concat(`":" port`, lit(":"), abnf.Repeat0Inf("port", digit))),
	)

	segment      = abnf.Repeat0Inf("segment", charsExcept("pchar", "/?#"))
	segmentNZ    = abnf.Repeat1Inf("segment-nz", charsExcept("pchar", "/?#"))
	segmentNZNC  = abnf.Repeat1Inf("segment-nz-nc", charsExcept("pchar-nc", ":/?#"))
	slashSegment = abnf.Concat(`"/" segment`, lit("/"), segment)
	segments     = abnf.Repeat0Inf(`*("/" segment)`, slashSegment)

	// All path forms share the "path" key, so that the path is found regardless of the form.
	pathAbempty  = abnf.Repeat0Inf("path", slashSegment)
	pathAbsolute = abnf.Concat("path",
		lit("/"),
		abnf.Optional(`[segment-nz *("/" segment)]`, abnf.Concat(`segment-nz *("/" segment)`, segmentNZ, segments)),
	)
	pathNoscheme = abnf.Concat("path", segmentNZNC, segments)
	pathRootless = abnf.Concat("path", segmentNZ, segments)

	// hier-part = "//" authority path-abempty / path-absolute / path-rootless / path-empty
	hierPart = abnf.Optional("hier-part", abnf.Alt("hier-part-alt",
		abnf.Concat(`"//" authority path-abempty`, lit("//"), authority, pathAbempty),
		pathAbsolute,
		pathRootless,
	))

	// relative-part = "//" authority path-abempty / path-absolute / path-noscheme / path-empty
	relativePart = abnf.Optional("relative-part", abnf.Alt("relative-part-alt",
		abnf.Concat(`"//" authority path-abempty`, lit("//"), authority, pathAbempty),
		pathAbsolute,
		pathNoscheme,
	))

	query    = abnf.Optional(`["?" query]`, abnf.Concat(`"?" query`, lit("?"), abnf.Repeat0Inf("query", charsExcept("query-char", "#"))))
	fragment = abnf.Optional(`["#" fragment]`, abnf.Concat(`"#" fragment`, lit("#"), abnf.Repeat0Inf("fragment", charsExcept("fragment-char", ""))))

	// URI = scheme ":" hier-part [ "?" query ] [ "#" fragment ]
	uri = abnf.Concat("URI", scheme, lit(":"), hierPart, query, fragment)

	// relative-ref = relative-part [ "?" query ] [ "#" fragment ]
	relativeRef = abnf.Concat("relative-ref", relativePart, query, fragment)

	// URI-reference = URI / relative-ref
	uriReference = abnf.Alt("URI-reference", uri, relativeRef)
)

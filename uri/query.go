package uri

import (
	"slices"
	"strings"

	"github.com/ghettovoice/gouri/internal/grammar"
	"github.com/ghettovoice/gouri/internal/util"
)

// QueryParam is a single query key with its value(s).
type QueryParam struct {
	Key string
	// Values holds exactly one value for scalar params, all values for list params
	// and nothing for bare keys, i.e. keys without "=".
	Values []string
	// List marks array params rendered as "key[]=value".
	List bool
}

// IsBare reports whether the param is a key without a value.
func (p QueryParam) IsBare() bool { return !p.List && len(p.Values) == 0 }

func (p QueryParam) clone() QueryParam {
	p.Values = slices.Clone(p.Values)
	return p
}

// Query is an ordered form-encoded query.
// Methods never modify the receiver and return updated copies instead.
type Query []QueryParam

// ParseQuery decodes the query string with form semantics.
// Dots and spaces in key names are replaced with "_".
func ParseQuery(s string) Query {
	return decodeQuery(s, false)
}

// ParseRawQuery is like [ParseQuery] but keeps key names literally.
func ParseRawQuery(s string) Query {
	return decodeQuery(s, true)
}

func decodeQuery(s string, raw bool) Query {
	if s == "" {
		return nil
	}

	var q Query
	for chunk := range strings.SplitSeq(s, "&") {
		if chunk == "" {
			continue
		}

		k, v, hasVal := strings.Cut(chunk, "=")
		k, v = grammar.UnescapeForm(k), grammar.UnescapeForm(v)

		var list bool
		if strings.HasSuffix(k, "[]") {
			k, list = k[:len(k)-2], true
		}
		if !raw {
			k = mangleQueryKey(k)
		}
		if k == "" {
			continue
		}

		switch {
		case list:
			q = q.put(k, v, true)
		case hasVal:
			q = q.put(k, v, false)
		default:
			q = q.putBare(k)
		}
	}
	return q
}

// mangleQueryKey rewrites the key name the way form decoders do:
// leading spaces are dropped, dots and spaces before the first bracket become "_".
func mangleQueryKey(k string) string {
	k = strings.TrimLeft(k, " ")
	name, rest := k, ""
	if i := strings.IndexByte(k, '['); i >= 0 && strings.IndexByte(k[i:], ']') > 0 {
		name, rest = k[:i], k[i:]
	}
	return strings.Map(func(r rune) rune {
		if r == '.' || r == ' ' || r == '[' {
			return '_'
		}
		return r
	}, name) + rest
}

func (q Query) index(k string) int {
	return slices.IndexFunc(q, func(p QueryParam) bool { return p.Key == k })
}

// put works in place, used while decoding and on fresh copies only.
func (q Query) put(k, v string, list bool) Query {
	i := q.index(k)
	if i < 0 {
		return append(q, QueryParam{Key: k, Values: []string{v}, List: list})
	}
	if list && q[i].List {
		q[i].Values = append(q[i].Values, v)
	} else {
		q[i].Values, q[i].List = []string{v}, list
	}
	return q
}

func (q Query) putBare(k string) Query {
	if i := q.index(k); i >= 0 {
		q[i].Values, q[i].List = nil, false
		return q
	}
	return append(q, QueryParam{Key: k})
}

// Len returns the number of keys.
func (q Query) Len() int { return len(q) }

// Keys returns the keys in order.
func (q Query) Keys() []string {
	keys := make([]string, len(q))
	for i, p := range q {
		keys[i] = p.Key
	}
	return keys
}

// Has checks whether the key is present.
func (q Query) Has(k string) bool { return q.index(k) >= 0 }

// Get returns the value of the key, the first one for list params.
// Bare keys return an empty string and true.
func (q Query) Get(k string) (string, bool) {
	i := q.index(k)
	if i < 0 {
		return "", false
	}
	if len(q[i].Values) == 0 {
		return "", true
	}
	return q[i].Values[0], true
}

// Values returns all values of the key.
func (q Query) Values(k string) []string {
	if i := q.index(k); i >= 0 {
		return slices.Clone(q[i].Values)
	}
	return nil
}

// Set returns a copy of the query with the scalar param k=v.
// An existing key keeps its position.
func (q Query) Set(k, v string) Query {
	return q.Clone().put(k, v, false)
}

// Append returns a copy of the query with v appended to the list param k.
// A scalar param with the same key is replaced by the list.
func (q Query) Append(k, v string) Query {
	return q.Clone().put(k, v, true)
}

// Without returns a copy of the query without the given keys.
func (q Query) Without(keys ...string) Query {
	return q.filter(func(p QueryParam) bool { return !slices.Contains(keys, p.Key) })
}

// Only returns a copy of the query with the given keys only.
func (q Query) Only(keys ...string) Query {
	return q.filter(func(p QueryParam) bool { return slices.Contains(keys, p.Key) })
}

func (q Query) filter(keep func(QueryParam) bool) Query {
	var res Query
	for _, p := range q {
		if keep(p) {
			res = append(res, p.clone())
		}
	}
	return res
}

// Clone returns a deep copy of the query.
func (q Query) Clone() Query {
	if q == nil {
		return nil
	}
	res := make(Query, len(q))
	for i, p := range q {
		res[i] = p.clone()
	}
	return res
}

// Equal reports whether both queries hold the same params in the same order.
func (q Query) Equal(other Query) bool {
	return slices.EqualFunc(q, other, func(a, b QueryParam) bool {
		return a.Key == b.Key && a.List == b.List && slices.Equal(a.Values, b.Values)
	})
}

// Encode returns the encoded query string without the leading "?".
// Params are rendered in order, list params as "key[]=value" pairs, bare keys without "=".
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for _, p := range q {
		k := grammar.EscapeAll(p.Key, shouldEscapeQueryKeyChar)
		switch {
		case p.List:
			for _, v := range p.Values {
				writeQueryPair(sb, k+"[]", v)
			}
		case p.IsBare():
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(k)
		default:
			writeQueryPair(sb, k, p.Values[0])
		}
	}
	return sb.String()
}

func writeQueryPair(sb *strings.Builder, k, v string) {
	if sb.Len() > 0 {
		sb.WriteByte('&')
	}
	sb.WriteString(k)
	sb.WriteByte('=')
	sb.WriteString(grammar.EscapeAll(v, shouldEscapeQueryChar))
}

// String implements [fmt.Stringer].
func (q Query) String() string { return q.Encode() }

func shouldEscapeQueryChar(c byte) bool { return !grammar.IsQueryChar(c) }

func shouldEscapeQueryKeyChar(c byte) bool { return !grammar.IsQueryKeyChar(c) }

// QueryOptions filters the query returned by [URI.RawQuery].
// Only and Except are mutually exclusive, Except wins when both are set.
type QueryOptions struct {
	// Only keeps the listed keys.
	Only []string `json:"only,omitempty"`
	// Except drops the listed keys.
	Except []string `json:"except,omitempty"`
}

// Filter returns the params of q selected by opts.
// Nil options keep all params.
func (q Query) Filter(opts *QueryOptions) Query {
	switch {
	case opts == nil:
		return q.Clone()
	case len(opts.Except) > 0:
		return q.Without(opts.Except...)
	case opts.Only != nil:
		return q.Only(opts.Only...)
	default:
		return q.Clone()
	}
}

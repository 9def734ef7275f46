package uri

//go:generate go tool errtrace -w .

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/grammar"
	"github.com/ghettovoice/gouri/internal/ioutil"
	"github.com/ghettovoice/gouri/internal/types"
	"github.com/ghettovoice/gouri/internal/util"
)

// RenderOptions contains options for rendering URIs.
type RenderOptions = types.RenderOptions

const defaultScheme = "http"

var (
	_ types.Renderer        = (*URI)(nil)
	_ types.Cloneable[*URI] = (*URI)(nil)
	_ types.ValidFlag       = (*URI)(nil)
	_ types.Equalable       = (*URI)(nil)
)

// URI represents a parsed and normalized URI reference.
//
// The zero value is not usable, create values with [New] or [Parse].
// A URI is never modified after creation, so it may be shared between goroutines.
type URI struct {
	scheme   string
	user     string
	password string
	host     string
	port     types.Optional[int]
	path     string
	segments []string
	query    Query
	fragment string
	rawQuery bool
}

// New returns an empty URI with the default "http" scheme.
func New() *URI {
	return &URI{scheme: defaultScheme}
}

// Parse parses a URI reference from the given input s (string or []byte).
// Empty input returns an empty URI, see [New].
//
// Components are normalized: the scheme is lower-cased, the path is filtered with [FilterPath]
// and the query is decoded with [ParseQuery]. Absent scheme defaults to "http".
func Parse[T ~string | ~[]byte](s T) (*URI, error) {
	return errtrace.Wrap2(New().withURI(string(s)))
}

// WithURI parses s and applies its components over a copy of u.
// Components absent in s keep the values of u, except the scheme that falls back to "http".
func (u *URI) WithURI(s string) (*URI, error) {
	return errtrace.Wrap2(u.clone().withURI(s))
}

func (u *URI) withURI(s string) (*URI, error) {
	if s == "" {
		return u, nil
	}
	p, err := grammar.ParseParts(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	u.applyParts(p)
	return u, nil
}

// applyParts overwrites components present in p, absent ones are left untouched.
func (u *URI) applyParts(p grammar.Parts) {
	if v, ok := p.Host.Get(); ok && v != "" {
		u.host = v
	}
	if v, ok := p.User.Get(); ok && v != "" {
		u.user = v
	}
	if v, ok := p.Path.Get(); ok && v != "" {
		u.setPath(v)
	}
	if v, ok := p.Query.Get(); ok && v != "" {
		u.setQuery(v)
	}
	if v, ok := p.Fragment.Get(); ok && v != "" {
		u.fragment = v
	}
	if v, ok := p.Scheme.Get(); ok {
		u.scheme = normalizeScheme(v)
	} else {
		u.scheme = defaultScheme
	}
	if v, ok := p.Port.Get(); ok {
		// the grammar allows digits only, range checks belong to WithPort
		if port, err := strconv.Atoi(v); err == nil {
			u.port = types.Some(port)
		}
	}
	if v, ok := p.Password.Get(); ok {
		u.password = v
	}
}

func (u *URI) setPath(path string) {
	u.path = FilterPath(path)
	u.segments = splitSegments(u.path)
}

func (u *URI) setQuery(q string) {
	u.query = decodeQuery(strings.TrimPrefix(q, "?"), u.rawQuery)
}

func normalizeScheme(s string) string {
	return strings.TrimRight(util.LCase(util.TrimSP(s)), ":/")
}

// Scheme returns the lower-cased scheme.
func (u *URI) Scheme() string {
	if u == nil {
		return ""
	}
	return u.scheme
}

// Authority returns "[userinfo@]host[:port]" or an empty string if the host is empty.
//
// The port is omitted when it equals the scheme default (see [DefaultPort])
// or opts.IgnorePort is set. The password is included only with opts.ShowPassword.
func (u *URI) Authority(opts *RenderOptions) string {
	if u == nil || u.host == "" {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.writeAuthority(sb, opts) //nolint:errcheck
	return sb.String()
}

func (u *URI) writeAuthority(w io.Writer, opts *RenderOptions) (int, error) {
	if u.host == "" {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	if ui := u.UserInfo(opts); ui != "" {
		cw.WriteString(ui, "@")
	}
	cw.WriteString(u.host)
	if port, ok := u.renderPort(opts); ok {
		cw.WriteString(":", strconv.Itoa(port))
	}
	return errtrace.Wrap2(cw.Result())
}

func (u *URI) renderPort(opts *RenderOptions) (int, bool) {
	port, ok := u.port.Get()
	if !ok || opts.IgnorePortOrDefault() {
		return 0, false
	}
	if def, ok := DefaultPort(u.scheme); ok && def == port {
		return 0, false
	}
	return port, true
}

// UserInfo returns "user[:password]".
// The password is included only with opts.ShowPassword.
func (u *URI) UserInfo(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	if opts.ShowPasswordOrDefault() && u.password != "" {
		return u.user + ":" + u.password
	}
	return u.user
}

// User returns the user name.
func (u *URI) User() string {
	if u == nil {
		return ""
	}
	return u.user
}

// Password returns the password.
func (u *URI) Password() string {
	if u == nil {
		return ""
	}
	return u.password
}

// Host returns the host, IPv6 literals are returned with brackets.
func (u *URI) Host() string {
	if u == nil {
		return ""
	}
	return u.host
}

// Port returns the port and whether it is set.
func (u *URI) Port() (int, bool) {
	if u == nil {
		return 0, false
	}
	return u.port.Get()
}

// Path returns the normalized path.
func (u *URI) Path() string {
	if u == nil {
		return ""
	}
	return u.path
}

// Query returns a copy of the decoded query.
func (u *URI) Query() Query {
	if u == nil {
		return nil
	}
	return u.query.Clone()
}

// RawQuery returns the encoded query filtered with opts, without the leading "?".
func (u *URI) RawQuery(opts *QueryOptions) string {
	if u == nil {
		return ""
	}
	return u.query.Filter(opts).Encode()
}

// Fragment returns the fragment without the leading "#".
func (u *URI) Fragment() string {
	if u == nil {
		return ""
	}
	return u.fragment
}

// Segments returns a copy of the path segments.
func (u *URI) Segments() []string {
	if u == nil {
		return nil
	}
	return slices.Clone(u.segments)
}

// TotalSegments returns the number of path segments.
func (u *URI) TotalSegments() int {
	if u == nil {
		return 0
	}
	return len(u.segments)
}

// Segment returns the n-th path segment, n is 0-indexed.
// It returns an error matching [ErrSegmentOutOfRange] and [ErrInvalidArgument]
// if n is outside of [0, TotalSegments()-1].
func (u *URI) Segment(n int) (string, error) {
	total := u.TotalSegments()
	if n < 0 || n >= total {
		return "", errtrace.Wrap(newSegmentOutOfRangeErr(n, total))
	}
	return u.segments[n], nil
}

// IsRawQueryString reports whether the query is decoded in the raw mode.
func (u *URI) IsRawQueryString() bool {
	return u != nil && u.rawQuery
}

// WithScheme returns a copy of u with the scheme.
// The scheme is lower-cased, a trailing ":" or "://" is stripped.
func (u *URI) WithScheme(scheme string) *URI {
	u2 := u.clone()
	u2.scheme = normalizeScheme(scheme)
	return u2
}

// WithUserInfo returns a copy of u with the user and password trimmed of spaces.
func (u *URI) WithUserInfo(user, password string) *URI {
	u2 := u.clone()
	u2.user = util.TrimSP(user)
	u2.password = util.TrimSP(password)
	return u2
}

// WithHost returns a copy of u with the host trimmed of spaces.
func (u *URI) WithHost(host string) *URI {
	u2 := u.clone()
	u2.host = util.TrimSP(host)
	return u2
}

// WithPort returns a copy of u with the port.
// Ports outside of [1, 65535] are rejected with an error matching
// [ErrInvalidPort] and [ErrInvalidArgument].
func (u *URI) WithPort(port int) (*URI, error) {
	if !isValidPort(port) {
		return nil, errtrace.Wrap(newInvalidPortErr(port))
	}
	u2 := u.clone()
	u2.port = types.Some(port)
	return u2, nil
}

// WithPath returns a copy of u with the path normalized by [FilterPath].
func (u *URI) WithPath(path string) *URI {
	u2 := u.clone()
	u2.setPath(path)
	return u2
}

// WithQuery returns a copy of u with the query decoded from q, a leading "?" is ignored.
// A query containing "#" is rejected with an error matching [ErrMalformedQuery] and [ErrInvalidArgument].
func (u *URI) WithQuery(q string) (*URI, error) {
	if strings.Contains(q, "#") {
		return nil, errtrace.Wrap(newMalformedQueryErr(q))
	}
	u2 := u.clone()
	u2.setQuery(q)
	return u2, nil
}

// WithQueryValues returns a copy of u with the query.
// The query is encoded and decoded back in the current mode of u,
// so in the standard mode key names are normalized.
func (u *URI) WithQueryValues(q Query) *URI {
	u2 := u.clone()
	u2.setQuery(q.Encode())
	return u2
}

// AddQuery returns a copy of u with the scalar query param key=value.
func (u *URI) AddQuery(key, value string) *URI {
	u2 := u.clone()
	u2.query = u2.query.Set(key, value)
	return u2
}

// StripQuery returns a copy of u without the given query keys.
func (u *URI) StripQuery(keys ...string) *URI {
	u2 := u.clone()
	u2.query = u2.query.Without(keys...)
	return u2
}

// KeepQuery returns a copy of u with only the given query keys.
func (u *URI) KeepQuery(keys ...string) *URI {
	u2 := u.clone()
	u2.query = u2.query.Only(keys...)
	return u2
}

// WithFragment returns a copy of u with the fragment, "#" and spaces are trimmed from both ends.
func (u *URI) WithFragment(fragment string) *URI {
	u2 := u.clone()
	u2.fragment = strings.Trim(fragment, "# ")
	return u2
}

// WithSegment returns a copy of u with the n-th path segment replaced by value, n is 0-indexed.
// The path is rebuilt from the segments and normalized again.
// It returns an error matching [ErrSegmentOutOfRange] and [ErrInvalidArgument]
// if n is outside of [0, TotalSegments()-1].
func (u *URI) WithSegment(n int, value string) (*URI, error) {
	total := u.TotalSegments()
	if n < 0 || n >= total {
		return nil, errtrace.Wrap(newSegmentOutOfRangeErr(n, total))
	}
	u2 := u.clone()
	u2.segments[n] = value
	u2.setPath(joinSegments(u.path, u2.segments))
	return u2, nil
}

// WithAuthority returns a copy of u with user info, host and port parsed from s.
//
// The input may be prefixed with "scheme://" or "//", anything after the authority
// starting from "/", "?" or "#" is ignored. Scheme and path of u are kept.
// Components absent in s keep the values of u.
func (u *URI) WithAuthority(s string) (*URI, error) {
	u2 := u.clone()

	s = trimAuthorityPrefix(util.TrimSP(s))
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return u2, nil
	}

	p, err := grammar.ParseAuthorityParts(s)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if v, ok := p.Host.Get(); ok && v != "" {
		u2.host = v
	}
	if v, ok := p.User.Get(); ok && v != "" {
		u2.user = v
	}
	if v, ok := p.Password.Get(); ok {
		u2.password = v
	}
	if v, ok := p.Port.Get(); ok {
		if port, err := strconv.Atoi(v); err == nil {
			u2.port = types.Some(port)
		}
	}
	return u2, nil
}

func trimAuthorityPrefix(s string) string {
	if strings.HasPrefix(s, "//") {
		return s[2:]
	}
	if i := strings.Index(s, "://"); i > 0 && isSchemeToken(s[:i]) {
		return s[i+3:]
	}
	return s
}

func isSchemeToken(s string) bool {
	for i := range len(s) {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return s != ""
}

// WithRawQueryString returns a copy of u with the query decoding mode.
// The mode applies to queries set after the switch, the current query is kept as is.
func (u *URI) WithRawQueryString(raw bool) *URI {
	u2 := u.clone()
	u2.rawQuery = raw
	return u2
}

// RenderTo writes the URI to the provided writer.
func (u *URI) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if u == nil {
		return 0, nil
	}
	return errtrace.Wrap2(writeURIString(w, u.scheme, u.Authority(opts), u.path, u.query.Encode(), u.fragment))
}

// Render returns the string representation of the URI.
func (u *URI) Render(opts *RenderOptions) string {
	if u == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	u.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the string representation of the URI with the password hidden.
func (u *URI) String() string {
	if u == nil {
		return ""
	}
	return u.Render(nil)
}

// Format implements [fmt.Formatter].
// All verbs print the rendered URI, so the password never leaks through fmt.
func (u *URI) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprint(f, strconv.Quote(u.String()))
	case 's', 'v':
		fmt.Fprint(f, u.String())
	default:
		fmt.Fprintf(f, fmt.FormatString(f, verb), u.String())
	}
}

// Equal compares components of two URIs.
// The query decoding mode is not a component and is ignored.
func (u *URI) Equal(val any) bool {
	var other *URI
	switch v := val.(type) {
	case URI:
		other = &v
	case *URI:
		other = v
	default:
		return false
	}

	if u == other {
		return true
	} else if u == nil || other == nil {
		return false
	}

	return u.scheme == other.scheme &&
		u.user == other.user &&
		u.password == other.password &&
		util.EqFold(u.host, other.host) &&
		u.port == other.port &&
		u.path == other.path &&
		u.query.Equal(other.query) &&
		u.fragment == other.fragment
}

// IsValid reports whether the URI has a host or a path.
func (u *URI) IsValid() bool {
	return u != nil && (u.host != "" || u.path != "")
}

// Clone returns a deep copy of the URI.
func (u *URI) Clone() *URI {
	if u == nil {
		return nil
	}
	return u.clone()
}

func (u *URI) clone() *URI {
	if u == nil {
		return New()
	}
	u2 := *u
	u2.segments = slices.Clone(u.segments)
	u2.query = u.query.Clone()
	return &u2
}

// MarshalText implements [encoding.TextMarshaler].
// The password is not included.
func (u *URI) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// On error u is reset to an empty URI, see [New].
func (u *URI) UnmarshalText(text []byte) error {
	u1, err := Parse(text)
	if err != nil {
		*u = *New()
		return errtrace.Wrap(err)
	}
	*u = *u1
	return nil
}

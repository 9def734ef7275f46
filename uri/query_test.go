package uri_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/gouri/uri"
)

func TestParseQuery(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  uri.Query
	}{
		{"empty", "", nil},
		{"pairs", "a=1&b=2", uri.Query{{Key: "a", Values: []string{"1"}}, {Key: "b", Values: []string{"2"}}}},
		{"list", "a[]=1&a[]=2", uri.Query{{Key: "a", Values: []string{"1", "2"}, List: true}}},
		{"overwrite", "a=1&b=2&a=3", uri.Query{{Key: "a", Values: []string{"3"}}, {Key: "b", Values: []string{"2"}}}},
		{"scalar to list", "a=1&a[]=2", uri.Query{{Key: "a", Values: []string{"2"}, List: true}}},
		{"bare key", "q", uri.Query{{Key: "q"}}},
		{"empty value", "k=", uri.Query{{Key: "k", Values: []string{""}}}},
		{"mangled keys", "a.b=1&c d=2", uri.Query{{Key: "a_b", Values: []string{"1"}}, {Key: "c_d", Values: []string{"2"}}}},
		{"decoded value", "x=a+b%2Bc", uri.Query{{Key: "x", Values: []string{"a b+c"}}}},
		{"empty chunks and keys", "=1&&b=", uri.Query{{Key: "b", Values: []string{""}}}},
		{"bracket key", "a.b[x]=1", uri.Query{{Key: "a_b[x]", Values: []string{"1"}}}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got := uri.ParseQuery(c.input)
			if diff := cmp.Diff([]uri.QueryParam(got), []uri.QueryParam(c.want)); diff != "" {
				t.Errorf("uri.ParseQuery(%q) = %+v, want %+v\ndiff (-got +want):\n%v", c.input, got, c.want, diff)
			}
		})
	}
}

func TestParseRawQuery(t *testing.T) {
	t.Parallel()

	got := uri.ParseRawQuery("a.b=1&c d[]=2")
	want := uri.Query{{Key: "a.b", Values: []string{"1"}}, {Key: "c d", Values: []string{"2"}, List: true}}
	if diff := cmp.Diff([]uri.QueryParam(got), []uri.QueryParam(want)); diff != "" {
		t.Errorf("uri.ParseRawQuery() = %+v, want %+v\ndiff (-got +want):\n%v", got, want, diff)
	}
}

func TestQuery_Encode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		query uri.Query
		want  string
	}{
		{"nil", nil, ""},
		{"parsed", uri.ParseQuery("a=1&b[]=x&b[]=y+z&q&k="), "a=1&b[]=x&b[]=y%20z&q&k="},
		{"escaped", uri.Query{{Key: "a&b", Values: []string{"1=2#"}}}, "a%26b=1%3D2%23"},
		{"percent", uri.Query{{Key: "p", Values: []string{"100%"}}}, "p=100%25"},
		{"safe chars", uri.Query{{Key: "k", Values: []string{"/path?x:y@z"}}}, "k=/path?x:y@z"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.query.Encode(); got != c.want {
				t.Errorf("query.Encode() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestQuery_Accessors(t *testing.T) {
	t.Parallel()

	q := uri.ParseQuery("a=1&l[]=x&l[]=y&bare")

	if got, want := q.Len(), 3; got != want {
		t.Errorf("q.Len() = %d, want %d", got, want)
	}
	if diff := cmp.Diff(q.Keys(), []string{"a", "l", "bare"}); diff != "" {
		t.Errorf("q.Keys() diff (-got +want):\n%v", diff)
	}
	if !q.Has("bare") || q.Has("missing") {
		t.Errorf("q.Has() mismatch for %v", q)
	}

	cases := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"a", "1", true},
		{"l", "x", true},
		{"bare", "", true},
		{"missing", "", false},
	}
	for _, c := range cases {
		if got, ok := q.Get(c.key); got != c.want || ok != c.wantOK {
			t.Errorf("q.Get(%q) = (%q, %v), want (%q, %v)", c.key, got, ok, c.want, c.wantOK)
		}
	}

	if diff := cmp.Diff(q.Values("l"), []string{"x", "y"}); diff != "" {
		t.Errorf("q.Values(\"l\") diff (-got +want):\n%v", diff)
	}
	if got := q.Values("missing"); got != nil {
		t.Errorf("q.Values(\"missing\") = %v, want nil", got)
	}
}

func TestQuery_Derivations(t *testing.T) {
	t.Parallel()

	q := uri.ParseQuery("a=1&b=2&c=3")

	cases := []struct {
		name  string
		query uri.Query
		want  string
	}{
		{"set new", q.Set("d", "4"), "a=1&b=2&c=3&d=4"},
		{"set existing", q.Set("b", "x"), "a=1&b=x&c=3"},
		{"append", uri.Query(nil).Append("k", "1").Append("k", "2"), "k[]=1&k[]=2"},
		{"append over scalar", q.Append("a", "9"), "a[]=9&b=2&c=3"},
		{"without", q.Without("a", "c"), "b=2"},
		{"only", q.Only("c", "a"), "a=1&c=3"},
		{"clone", q.Clone(), "a=1&b=2&c=3"},
		{"filter nil", q.Filter(nil), "a=1&b=2&c=3"},
		{"filter empty", q.Filter(&uri.QueryOptions{}), "a=1&b=2&c=3"},
		{"filter only", q.Filter(&uri.QueryOptions{Only: []string{"b"}}), "b=2"},
		{"filter only none", q.Filter(&uri.QueryOptions{Only: []string{}}), ""},
		{"filter except", q.Filter(&uri.QueryOptions{Except: []string{"b"}}), "a=1&c=3"},
		{"filter except wins", q.Filter(&uri.QueryOptions{Only: []string{"a"}, Except: []string{"a"}}), "b=2&c=3"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.query.String(); got != c.want {
				t.Errorf("query.String() = %q, want %q", got, c.want)
			}
		})
	}

	if got, want := q.Encode(), "a=1&b=2&c=3"; got != want {
		t.Errorf("q was modified: %q, want %q", got, want)
	}
}

func TestQuery_Equal(t *testing.T) {
	t.Parallel()

	q := uri.ParseQuery("a=1&b[]=2")
	if !q.Equal(uri.ParseQuery("a=1&b[]=2")) {
		t.Error("equal queries reported as different")
	}
	if q.Equal(uri.ParseQuery("b[]=2&a=1")) {
		t.Error("queries with different order reported as equal")
	}
	if q.Equal(uri.ParseQuery("a=1&b=2")) {
		t.Error("list and scalar params reported as equal")
	}
}

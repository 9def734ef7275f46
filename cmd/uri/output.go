package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/gouri/uri"
)

type uriView struct {
	URI       string      `json:"uri" yaml:"uri"`
	Scheme    string      `json:"scheme" yaml:"scheme"`
	Authority string      `json:"authority,omitempty" yaml:"authority,omitempty"`
	User      string      `json:"user,omitempty" yaml:"user,omitempty"`
	Password  string      `json:"password,omitempty" yaml:"password,omitempty"`
	Host      string      `json:"host,omitempty" yaml:"host,omitempty"`
	Port      *int        `json:"port,omitempty" yaml:"port,omitempty"`
	Path      string      `json:"path,omitempty" yaml:"path,omitempty"`
	Segments  []string    `json:"segments,omitempty" yaml:"segments,omitempty"`
	Query     string      `json:"query,omitempty" yaml:"query,omitempty"`
	Params    []paramView `json:"params,omitempty" yaml:"params,omitempty"`
	Fragment  string      `json:"fragment,omitempty" yaml:"fragment,omitempty"`
}

type paramView struct {
	Key    string   `json:"key" yaml:"key"`
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
	List   bool     `json:"list,omitempty" yaml:"list,omitempty"`
}

func newURIView(u *uri.URI, opts *uri.RenderOptions) uriView {
	v := uriView{
		URI:       u.Render(opts),
		Scheme:    u.Scheme(),
		Authority: u.Authority(opts),
		User:      u.User(),
		Host:      u.Host(),
		Path:      u.Path(),
		Segments:  u.Segments(),
		Query:     u.RawQuery(nil),
		Params:    newParamViews(u.Query()),
		Fragment:  u.Fragment(),
	}
	if opts.ShowPasswordOrDefault() {
		v.Password = u.Password()
	}
	if port, ok := u.Port(); ok {
		v.Port = &port
	}
	return v
}

func newParamViews(q uri.Query) []paramView {
	if q.Len() == 0 {
		return nil
	}
	res := make([]paramView, 0, q.Len())
	for _, p := range q {
		res = append(res, paramView{Key: p.Key, Values: p.Values, List: p.List})
	}
	return res
}

func (v uriView) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	field := func(k, val string) {
		if val != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", k, val)
		}
	}
	field("uri", v.URI)
	field("scheme", v.Scheme)
	field("authority", v.Authority)
	field("user", v.User)
	field("password", v.Password)
	field("host", v.Host)
	if v.Port != nil {
		field("port", strconv.Itoa(*v.Port))
	}
	field("path", v.Path)
	if len(v.Segments) > 0 {
		field("segments", strings.Join(v.Segments, ", "))
	}
	field("query", v.Query)
	for _, p := range v.Params {
		var val string
		switch {
		case p.List:
			val = "[" + strings.Join(p.Values, ", ") + "]"
		case len(p.Values) > 0:
			val = p.Values[0]
		}
		fmt.Fprintf(tw, "  %s\t= %s\n", p.Key, val)
	}
	field("fragment", v.Fragment)
	return errtrace.Wrap(tw.Flush())
}

type resolveView struct {
	Base      string `json:"base" yaml:"base"`
	Reference string `json:"reference" yaml:"reference"`
	URI       string `json:"uri" yaml:"uri"`
}

func (v resolveView) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n", v.URI)
	return errtrace.Wrap(err)
}

type normalizeView struct {
	Input string `json:"input" yaml:"input"`
	Path  string `json:"path" yaml:"path"`
}

func (v normalizeView) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n", v.Path)
	return errtrace.Wrap(err)
}

type queryView struct {
	URI    string      `json:"uri" yaml:"uri"`
	Query  string      `json:"query" yaml:"query"`
	Params []paramView `json:"params,omitempty" yaml:"params,omitempty"`
}

func (v queryView) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n", v.Query)
	return errtrace.Wrap(err)
}

type textWriter interface {
	writeText(w io.Writer) error
}

// writeViews prints views in the configured format.
// Text blocks of multi-line views are separated by an empty line.
func writeViews[V textWriter](w io.Writer, format string, views []V) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errtrace.Wrap(enc.Encode(views))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return errtrace.Wrap(err)
		}
		return errtrace.Wrap(enc.Close())
	default:
		for i, v := range views {
			if _, ok := any(v).(uriView); ok && i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return errtrace.Wrap(err)
				}
			}
			if err := v.writeText(w); err != nil {
				return errtrace.Wrap(err)
			}
		}
		return nil
	}
}

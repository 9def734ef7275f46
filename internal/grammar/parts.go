package grammar

import (
	"braces.dev/errtrace"
	"github.com/ghettovoice/abnf"

	"github.com/ghettovoice/gouri/internal/types"
)

// Parts holds raw, undecoded components of a URI reference.
// A component is unset when its delimiter was absent from the input,
// e.g. "http://a/b" has no query while "http://a/b?" has an empty one.
type Parts struct {
	Scheme   types.Optional[string]
	User     types.Optional[string]
	Password types.Optional[string]
	Host     types.Optional[string]
	Port     types.Optional[string]
	Path     types.Optional[string]
	Query    types.Optional[string]
	Fragment types.Optional[string]
}

// ParseParts parses s as URI-reference and splits it into components.
func ParseParts[T ~string | ~[]byte](s T) (Parts, error) {
	node, err := ParseURIReference(s)
	if err != nil {
		return Parts{}, errtrace.Wrap(err)
	}
	return PartsFromNode(node), nil
}

// ParseAuthorityParts parses s as authority and returns its components.
func ParseAuthorityParts[T ~string | ~[]byte](s T) (Parts, error) {
	node, err := ParseAuthority(s)
	if err != nil {
		return Parts{}, errtrace.Wrap(err)
	}
	var p Parts
	authorityParts(node, &p)
	return p, nil
}

// PartsFromNode extracts components from a URI-reference node.
func PartsFromNode(node *abnf.Node) Parts {
	var p Parts
	if n, ok := node.GetNode("scheme"); ok {
		p.Scheme = types.Some(n.String())
	}
	if n, ok := node.GetNode("authority"); ok {
		authorityParts(n, &p)
	}
	if n, ok := node.GetNode("path"); ok {
		p.Path = types.Some(n.String())
	}
	if n, ok := node.GetNode("query"); ok {
		p.Query = types.Some(n.String())
	}
	if n, ok := node.GetNode("fragment"); ok {
		p.Fragment = types.Some(n.String())
	}
	return p
}

func authorityParts(node *abnf.Node, p *Parts) {
	if n, ok := node.GetNode("userinfo"); ok {
		p.User = types.Some(MustGetNode(n, "user").String())
		if n, ok := n.GetNode("password"); ok {
			p.Password = types.Some(n.String())
		}
	}
	p.Host = types.Some(MustGetNode(node, "host").String())
	// "host:" carries no port
	if n, ok := node.GetNode("port"); ok && n.Len() > 0 {
		p.Port = types.Some(n.String())
	}
}

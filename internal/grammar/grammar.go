// Package grammar implements the RFC 3986 URI grammar and percent-encoding helpers.
//
// The grammar is lenient about characters: path, query and fragment accept any byte
// except control characters and the component's own delimiters, so that raw spaces or
// UTF-8 pass through to the normalization done by the uri package.
// Structure (scheme, authority, path forms) follows RFC 3986 Appendix A.
package grammar

//go:generate go tool errtrace -w .

import (
	"fmt"

	"github.com/ghettovoice/abnf"
)

func init() {
	abnf.EnableNodeCache(10 * 1024)
}

type Error string

func (e Error) Error() string { return string(e) }

func (Error) Grammar() bool { return true }

const ErrNodeNotFound Error = "node not found"

// MustGetNode returns a pointer to the ABNF node with the given key.
func MustGetNode(n *abnf.Node, k string) *abnf.Node {
	sn, ok := n.GetNode(k)
	if !ok {
		panic(fmt.Errorf("get node %q from node %q: %w", k, n.Key, ErrNodeNotFound))
	}
	return sn
}

package uri

import (
	"braces.dev/errtrace"

	"github.com/ghettovoice/gouri/internal/errorutil"
	"github.com/ghettovoice/gouri/internal/syncutil"
)

const (
	minPort = 1
	maxPort = 65535
)

var defaultPorts = syncutil.NewRWMap(map[string]int{
	"http":  80,
	"https": 443,
	"ftp":   21,
	"sftp":  22,
})

// DefaultPort returns the registered default port of the scheme.
func DefaultPort(scheme string) (int, bool) {
	return defaultPorts.Get(normalizeScheme(scheme))
}

// RegisterDefaultPort registers or replaces the default port of the scheme.
// Ports equal to the scheme default are omitted from rendered authorities.
// It is safe for concurrent use.
func RegisterDefaultPort(scheme string, port int) error {
	scheme = normalizeScheme(scheme)
	if scheme == "" {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("empty scheme"))
	}
	if !isValidPort(port) {
		return errtrace.Wrap(newInvalidPortErr(port))
	}
	defaultPorts.Set(scheme, port)
	return nil
}

func isValidPort(port int) bool { return minPort <= port && port <= maxPort }

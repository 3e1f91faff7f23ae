package toolserver

import (
	"context"

	"github.com/cockroachdb/errors"
)

var (
	// ErrConfigMissing indicates the server map file does not exist.
	// Callers degrade to an empty registry instead of failing.
	ErrConfigMissing = errors.New("server config file not found")

	// ErrServerUnavailable indicates the named server has no live connection.
	ErrServerUnavailable = errors.New("server unavailable")

	// ErrUnknownServer indicates the named server is not present in the
	// registry at all.
	ErrUnknownServer = errors.New("unknown server")

	// ErrTimeout indicates a remote call exceeded its deadline.
	ErrTimeout = errors.New("remote call timed out")
)

// wrapTimeout converts a context deadline failure into ErrTimeout so callers
// can match on the error kind regardless of the transport that produced it.
func wrapTimeout(ctx context.Context, err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.WithMessagef(ErrTimeout, "%s: %v", op, err)
	}
	return errors.WithMessage(err, op)
}

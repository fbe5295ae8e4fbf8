package util

import (
	"io"
	"log/slog"
)

// CloseFunc closes c and logs a failure instead of returning it. Meant for
// deferred closes of read-only handles.
func CloseFunc(c io.Closer, what string) {
	if err := c.Close(); err != nil {
		slog.Error("close", "what", what, "err", err)
	}
}

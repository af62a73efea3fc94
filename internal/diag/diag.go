// Package diag wires up the per-run structured logger and session
// correlation id every millfmt command uses: a zap logger scoped to the
// session, tagged with a uuid stamped onto every log entry so a
// multi-command log stream stays attributable.
package diag

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session starts a structured-logging session for one millfmt
// invocation (kind is "lex", "fmt", or similar, logged as a field on
// every entry so a multi-command log stream stays attributable). A
// zap logger that fails to build (extremely rare — only a broken
// encoder config causes it) falls back to zap.NewNop() rather than
// failing the command, mirroring the LSP server's own fallback.
func Session(kind string) (*zap.Logger, uuid.UUID) {
	id := uuid.New()

	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	logger = logger.With(
		zap.String("session", id.String()),
		zap.String("command", kind),
	)
	return logger, id
}

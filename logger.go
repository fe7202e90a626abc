package pixhist

import (
	"log/slog"
	"sync/atomic"
)

// discard is the logger in effect until SetLogger is called. Its handler
// reports every level as disabled, so log calls skip attribute formatting.
var discard = slog.New(slog.DiscardHandler)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(discard)
}

// SetLogger sets the logger shared by pixhist and its sub-packages.
// Pass nil to silence logging again. Safe for concurrent use.
//
// Levels:
//   - [slog.LevelDebug]: history mutations (push, undo, redo, truncation)
//   - [slog.LevelInfo]: view lifecycle and completed exports
//   - [slog.LevelWarn]: replay failures and premature end of a replay stream
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discard
	}
	logger.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return logger.Load()
}

package longscroll

import (
	"log/slog"
	"sync/atomic"
)

// logger is the package-wide structured logger, overridable via SetLogger.
// It defaults to slog's default handler so embedding programs get sane
// output without any setup required.
var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.Default())
}

// SetLogger overrides the logger used for task-cancellation notices,
// velocity-jump warnings, and other non-fatal diagnostics. Safe to call
// concurrently with a running LongScroll.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger.Store(l)
}

func log() *slog.Logger {
	return logger.Load()
}

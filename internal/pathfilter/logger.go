package pathfilter

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger sets the logger used by the package. By default nothing is
// logged; pass nil to restore that.
//
// Debug records cover threshold table builds, resolution tier switches and
// per-traversal counters. Degenerate transforms are logged as warnings.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger.
func Logger() *zap.Logger {
	return loggerPtr.Load()
}

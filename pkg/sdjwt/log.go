package sdjwt

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// Log is a thin logr-backed wrapper, grounded on the teacher's pkg/logger
// (Log{logr.Logger}, New/NewSimple). The core Issuer/Verifier types accept a
// *Log and treat nil as a silent no-op — logging is opt-in, never required,
// since the library itself is a pure, stateless function set (§5).
type Log struct {
	logr.Logger
}

// NewLog builds a production zap-backed Log, mirroring pkg/logger.New's
// zap.NewProductionConfig path (structured JSON, caller disabled).
func NewLog(name string) (*Log, error) {
	cfg := zap.NewProductionConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true

	z, err := cfg.Build()
	if err != nil {
		return nil, WrapError(KindInvalidInput, "failed to build logger", err)
	}

	return &Log{Logger: zapr.NewLogger(z).WithName(name)}, nil
}

// NewDevelopmentLog builds a human-readable console Log, mirroring
// pkg/logger.New's non-production branch.
func NewDevelopmentLog(name string) (*Log, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true

	z, err := cfg.Build()
	if err != nil {
		return nil, WrapError(KindInvalidInput, "failed to build logger", err)
	}

	return &Log{Logger: zapr.NewLogger(z).WithName(name)}, nil
}

// Debug logs at verbosity level 1, matching pkg/logger's Debug/Trace split.
func (l *Log) Debug(msg string, keysAndValues ...any) {
	if l == nil {
		return
	}
	l.Logger.V(1).Info(msg, keysAndValues...)
}

// Trace logs at verbosity level 2.
func (l *Log) Trace(msg string, keysAndValues ...any) {
	if l == nil {
		return
	}
	l.Logger.V(2).Info(msg, keysAndValues...)
}

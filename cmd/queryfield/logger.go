package main

import (
	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger logs to stderr with zap. debug level enables V(1) of logr.
func newLogger(c LogConfig) (logr.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return logr.Discard(), nil, errors.Wrapf(err, "log level %q", c.Level)
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true

	z, err := zc.Build()
	if err != nil {
		return logr.Discard(), nil, errors.Wrap(err, "build logger")
	}

	return zapr.NewLogger(z), func() {
		_ = z.Sync()
	}, nil
}

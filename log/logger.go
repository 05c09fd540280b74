// Copyright 2019 The stellar-playground Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log wraps a package-level zap sugared logger so callers
// write log.Infow(...) instead of threading a logger through every
// component of the playground.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	root  *zap.SugaredLogger
	level zap.AtomicLevel
)

func init() {
	level = zap.NewAtomicLevelAt(zap.InfoLevel)

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	// submissions arrive in bursts from a single client, sampling
	// would drop the interesting ones
	cfg.Sampling = nil
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(
		// errors carry enough context in the message, keep
		// stacktraces for panics only
		zap.AddStacktrace(zapcore.DPanicLevel),
		zap.AddCallerSkip(1),
	)
	if err != nil {
		panic(err)
	}
	root = logger.Sugar()
}

// SetDebug toggles debug-level output at runtime.
func SetDebug(on bool) {
	if on {
		level.SetLevel(zap.DebugLevel)
	} else {
		level.SetLevel(zap.InfoLevel)
	}
}

func Debug(args ...interface{}) {
	root.Debug(args...)
}

func Debugf(template string, args ...interface{}) {
	root.Debugf(template, args...)
}

func Debugw(msg string, keysAndValues ...interface{}) {
	root.Debugw(msg, keysAndValues...)
}

func Info(args ...interface{}) {
	root.Info(args...)
}

func Infof(template string, args ...interface{}) {
	root.Infof(template, args...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	root.Infow(msg, keysAndValues...)
}

func Warn(args ...interface{}) {
	root.Warn(args...)
}

func Warnf(template string, args ...interface{}) {
	root.Warnf(template, args...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	root.Warnw(msg, keysAndValues...)
}

func Error(args ...interface{}) {
	root.Error(args...)
}

func Errorf(template string, args ...interface{}) {
	root.Errorf(template, args...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	root.Errorw(msg, keysAndValues...)
}

func Fatal(args ...interface{}) {
	root.Fatal(args...)
}

func Fatalf(template string, args ...interface{}) {
	root.Fatalf(template, args...)
}

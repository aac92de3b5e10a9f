/**
 * Copyright 2024 Robert Cronin
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package logger wraps zap with the CLI's single global, level-switchable
// sugared logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op logger until Init is
// called, so packages may log unconditionally during early init.
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// Init builds the console-encoded, level-filtered logger used for the rest
// of the process's lifetime.
func Init(level zapcore.Level) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()

	l, err := cfg.Build()
	if err != nil {
		// Falling back to a Nop logger would hide every subsequent log
		// line; a broken logger config is as fatal as any other startup
		// failure.
		panic(err)
	}
	Log = l.Sugar()
}

// ParseLevel maps the CLI's --loglevel flag value to a zapcore.Level,
// defaulting to Info for an unrecognized value.
func ParseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

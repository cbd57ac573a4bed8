// Copyright 2015 Light Code Labs, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package accesslog

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// defaultLogger backs Log(), the same pattern caddy.Log() in logging.go
// uses: a swappable package-level logger for load-time diagnostics. The
// config package logs its load summary through it; nothing in this package
// itself logs, and the per-request Evaluate path is pure and silent.
var defaultLogger atomic.Pointer[zap.Logger]

func init() {
	defaultLogger.Store(zap.NewNop())
}

// Log returns the package's current diagnostic logger.
func Log() *zap.Logger {
	return defaultLogger.Load()
}

// SetLogger replaces the package's diagnostic logger. Callers embedding
// this package into a larger service typically call this once during
// startup with their own configured *zap.Logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	defaultLogger.Store(l)
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer

import "go.uber.org/zap"

// NewLogger builds the structured logger accepted by WithLogger and
// WithPlanLogger: a development (console, debug-level) logger when debug
// is true, a production (JSON, info-level) logger otherwise. Every
// placer type treats a nil logger as zap.NewNop(), so callers that don't
// care about logging can skip this entirely.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

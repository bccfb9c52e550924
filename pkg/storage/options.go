package storage

import (
	"time"

	"github.com/rs/zerolog"
)

type EngineOption func(*Engine)

// WithAutoSave enables periodic background saves of dirty databases.
func WithAutoSave(interval time.Duration) EngineOption {
	return func(engine *Engine) {
		if interval > 0 {
			engine.autoSave = true
			engine.saveInterval = interval
		}
	}
}

// WithLogger attaches a logger to the engine.
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(engine *Engine) {
		engine.logger = logger
	}
}

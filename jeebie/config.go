package jeebie

import "log/slog"

// Config tunes a DMG instance. The zero value is ready to use.
type Config struct {
	// Trace logs every executed instruction at debug level.
	Trace bool
	// Logger receives the machine's log output. When nil, the default
	// logger at the time of each call is used.
	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

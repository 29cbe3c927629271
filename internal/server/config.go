package server

import (
	"github.com/glowstarlabs/alttext-audit/internal/app"
	"github.com/glowstarlabs/alttext-audit/internal/interfaces"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// AppConfig carries the shared runtime configuration. Nil falls back to
	// app.DefaultConfig().
	AppConfig *app.Config

	// Logger is optional; a stdout JSON logger is used when nil.
	Logger interfaces.Logger
}

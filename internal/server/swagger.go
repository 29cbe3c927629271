package server

//go:generate swag init -g internal/server/server.go -o docs

// @title AltText Audit API
// @version 0.1
// @description Interactive documentation for the alt text compliance audit API surface.
// @contact.name AltText Audit Maintainers
// @contact.url https://github.com/glowstarlabs/alttext-audit
// @BasePath /

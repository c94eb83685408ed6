// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures and valid values for server settings,
// such as the supported map providers.
//
// # Configuration
//
// The Config struct defines the HTTP port, the default map provider
// (Leaflet, Kakao, Naver) and the CORS origin policy for the public endpoints.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the maps feature to validate provider names.
package server

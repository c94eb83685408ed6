package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// Provider specifies the default map provider (leaflet, kakao, naver).
	Provider string `mapstructure:"provider" default:"leaflet"`
	// CORSOrigins is the value sent in Access-Control-Allow-Origin headers.
	CORSOrigins string `mapstructure:"cors_origins" default:"*"`
}

const (
	ProviderLeaflet = "leaflet"
	ProviderKakao   = "kakao"
	ProviderNaver   = "naver"
)

// IsValidProvider checks if the configured map provider is valid.
func (c Config) IsValidProvider() bool {
	switch c.Provider {
	case ProviderLeaflet, ProviderKakao, ProviderNaver:
		return true
	default:
		return false
	}
}

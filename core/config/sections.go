package config

// MapsConfig holds configuration for the map provider adapters.
type MapsConfig struct {
	// KakaoAppKey is the Kakao Maps JavaScript SDK app key.
	KakaoAppKey string `mapstructure:"kakao_app_key" default:""`
	// NaverClientID is the Naver Maps (NCP) key ID used for the SDK URL.
	NaverClientID string `mapstructure:"naver_client_id" default:""`
	// CenterLat is the initial map center latitude.
	CenterLat float64 `mapstructure:"center_lat" default:"35.63"`
	// CenterLng is the initial map center longitude.
	CenterLng float64 `mapstructure:"center_lng" default:"126.88"`
	// Zoom is the initial tile zoom level.
	Zoom int `mapstructure:"zoom" default:"13"`
}

// SearchConfig holds credentials for the address search providers.
type SearchConfig struct {
	// NaverClientID is the Naver open API client ID.
	NaverClientID string `mapstructure:"naver_client_id" default:""`
	// NaverClientSecret is the Naver open API client secret.
	NaverClientSecret string `mapstructure:"naver_client_secret" default:""`
	// KakaoRESTKey is the Kakao REST API key for the local keyword search.
	KakaoRESTKey string `mapstructure:"kakao_rest_key" default:""`
}

// SyncConfig holds configuration for the cloud sync coordinator.
type SyncConfig struct {
	// Enabled toggles the cloud sync feature.
	Enabled bool `mapstructure:"enabled" default:"true"`
}

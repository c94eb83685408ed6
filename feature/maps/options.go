package maps

// Options holds the provider-independent map settings: the initial
// viewport and the SDK credentials of the vector providers.
type Options struct {
	// Center is the initial map center.
	Center Coordinate
	// Zoom is the initial tile zoom level (Leaflet scale).
	Zoom int
	// KakaoAppKey is the Kakao Maps JavaScript app key.
	KakaoAppKey string
	// NaverClientID is the Naver Maps NCP key ID.
	NaverClientID string
}

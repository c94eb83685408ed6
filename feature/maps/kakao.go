package maps

import (
	"fmt"

	"device-locator/core/utils"
)

// Kakao's zoom scale is a level where 1 is the closest view and larger
// numbers zoom out, the inverse of the usual tile zoom.
const (
	kakaoInitLevel = 3
	kakaoMaxLevel  = 1
)

type kakaoDialect struct{}

func (kakaoDialect) kind() string { return "kakao" }

func (kakaoDialect) lazy() bool { return true }

func (kakaoDialect) sdkURL(opts Options) string {
	return fmt.Sprintf("https://dapi.kakao.com/v2/maps/sdk.js?appkey=%s&autoload=false", opts.KakaoAppKey)
}

func (kakaoDialect) initArgs(opts Options) map[string]any {
	return map[string]any{
		"lat":   opts.Center.Lat,
		"lng":   opts.Center.Lng,
		"level": kakaoInitLevel,
	}
}

// Kakao click payloads carry a latLng pair as a [lat, lng] array.
func (kakaoDialect) parseCoord(payload map[string]any) (Coordinate, bool) {
	raw, ok := payload["latLng"]
	if !ok {
		return Coordinate{}, false
	}
	pair, ok := raw.([]any)
	if !ok || len(pair) != 2 {
		return Coordinate{}, false
	}
	return Coordinate{Lat: utils.ToFloat(pair[0]), Lng: utils.ToFloat(pair[1])}, true
}

func (kakaoDialect) flyArgs(c Coordinate, intent ZoomIntent) map[string]any {
	args := map[string]any{"lat": c.Lat, "lng": c.Lng}
	if intent == ZoomMax {
		args["level"] = kakaoMaxLevel
	}
	return args
}

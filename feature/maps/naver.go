package maps

import (
	"fmt"

	"device-locator/core/utils"
)

const (
	naverMaxZoom = 21
	// Morph animation settings matching the vector SDK's smooth pan.
	naverMorphDuration = 800
	naverMorphEasing   = "easeOutCubic"
)

type naverDialect struct{}

func (naverDialect) kind() string { return "naver" }

func (naverDialect) lazy() bool { return true }

func (naverDialect) sdkURL(opts Options) string {
	return fmt.Sprintf("https://oapi.map.naver.com/openapi/v3/maps.js?ncpKeyId=%s", opts.NaverClientID)
}

func (naverDialect) initArgs(opts Options) map[string]any {
	return map[string]any{
		"lat":  opts.Center.Lat,
		"lng":  opts.Center.Lng,
		"zoom": opts.Zoom,
	}
}

// Naver events carry the coordinate as a nested coord object.
func (naverDialect) parseCoord(payload map[string]any) (Coordinate, bool) {
	nested, ok := nestedObject(payload, "coord")
	if !ok {
		return Coordinate{}, false
	}
	return Coordinate{Lat: utils.ToFloat(nested["lat"]), Lng: utils.ToFloat(nested["lng"])}, true
}

func (naverDialect) flyArgs(c Coordinate, intent ZoomIntent) map[string]any {
	args := map[string]any{
		"lat":      c.Lat,
		"lng":      c.Lng,
		"duration": naverMorphDuration,
		"easing":   naverMorphEasing,
	}
	if intent == ZoomMax {
		args["zoom"] = naverMaxZoom
	}
	return args
}

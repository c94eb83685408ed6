package maps

import "device-locator/core/utils"

// Leaflet ships bundled with the front-end assets, so its dialect is never
// lazy. Tiles come from the public OSM raster servers.
const (
	leafletTileURL     = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	leafletTileMaxZoom = 19
)

type leafletDialect struct{}

func (leafletDialect) kind() string { return "leaflet" }

func (leafletDialect) lazy() bool { return false }

func (leafletDialect) sdkURL(Options) string { return "" }

func (leafletDialect) initArgs(opts Options) map[string]any {
	return map[string]any{
		"lat":     opts.Center.Lat,
		"lng":     opts.Center.Lng,
		"zoom":    opts.Zoom,
		"tileUrl": leafletTileURL,
		"maxZoom": leafletTileMaxZoom,
	}
}

// Leaflet events carry the coordinate as a nested latlng object.
func (leafletDialect) parseCoord(payload map[string]any) (Coordinate, bool) {
	nested, ok := nestedObject(payload, "latlng")
	if !ok {
		return Coordinate{}, false
	}
	return Coordinate{Lat: utils.ToFloat(nested["lat"]), Lng: utils.ToFloat(nested["lng"])}, true
}

func (leafletDialect) flyArgs(c Coordinate, intent ZoomIntent) map[string]any {
	args := map[string]any{"lat": c.Lat, "lng": c.Lng}
	if intent == ZoomMax {
		args["zoom"] = leafletTileMaxZoom
	}
	return args
}

package constraint

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// GeoPoint is a WGS84 coordinate pair in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// String renders the point as "lat, lng" with the shortest exact decimal
// form of each coordinate.
func (p GeoPoint) String() string {
	return formatCoordinate(p.Lat) + ", " + formatCoordinate(p.Lng)
}

// GeoJSON returns the point as a GeoJSON Point document, coordinates in
// [lng, lat] order.
func (p GeoPoint) GeoJSON() map[string]interface{} {
	return map[string]interface{}{
		"type":        "Point",
		"coordinates": []interface{}{p.Lng, p.Lat},
	}
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// GeoPointFromGeoJSON reads a GeoJSON Point document.
func GeoPointFromGeoJSON(doc map[string]interface{}) (GeoPoint, bool) {
	if t, _ := doc["type"].(string); t != "Point" {
		return GeoPoint{}, false
	}
	var coords []interface{}
	switch c := doc["coordinates"].(type) {
	case []interface{}:
		coords = c
	case []float64:
		coords = []interface{}{}
		for _, v := range c {
			coords = append(coords, v)
		}
	default:
		return GeoPoint{}, false
	}
	if len(coords) != 2 {
		return GeoPoint{}, false
	}
	lng, ok1 := toFloat(coords[0])
	lat, ok2 := toFloat(coords[1])
	if !ok1 || !ok2 {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: lat, Lng: lng}, true
}

func toFloat(v interface{}) (float64, bool) {
	if f, ok := v.(float64); ok {
		return f, true
	}
	d, ok := ToDecimal(v)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

const coordinateScale = 1e7

// One coordinate: optional hemisphere prefix, degrees, optional minutes and
// seconds with their marks, optional hemisphere suffix.
const coordinatePart = `([NSEW])?\s*([-+]?\d+(?:\.\d+)?)\s*°?\s*` +
	`(?:(\d+(?:\.\d+)?)\s*['´’′]?\s*(?:(\d+(?:\.\d+)?)\s*["″”]?\s*)?)?([NSEW])?`

var coordinatesMatch = regexp.MustCompile(`(?i)^\s*` + coordinatePart + `\s*[,;]?\s*` + coordinatePart + `\s*$`)

type coordinate struct {
	value      float64
	hemisphere string
}

func parseCoordinate(groups []string) (coordinate, bool) {
	prefix, deg, min, sec, suffix := groups[0], groups[1], groups[2], groups[3], groups[4]
	if prefix != "" && suffix != "" {
		return coordinate{}, false
	}

	degrees, err := strconv.ParseFloat(deg, 64)
	if err != nil {
		return coordinate{}, false
	}
	negative := strings.HasPrefix(deg, "-")
	value := math.Abs(degrees)

	if min != "" {
		minutes, err := strconv.ParseFloat(min, 64)
		if err != nil || minutes >= 60 || strings.Contains(deg, ".") {
			return coordinate{}, false
		}
		value += minutes / 60
	}
	if sec != "" {
		seconds, err := strconv.ParseFloat(sec, 64)
		if err != nil || seconds >= 60 || strings.Contains(min, ".") {
			return coordinate{}, false
		}
		value += seconds / 3600
	}

	hemisphere := strings.ToUpper(prefix + suffix)
	if hemisphere != "" && negative {
		return coordinate{}, false
	}
	if negative || hemisphere == "S" || hemisphere == "W" {
		value = -value
	}
	return coordinate{value: value, hemisphere: hemisphere}, true
}

func isLongitudeHemisphere(h string) bool { return h == "E" || h == "W" }

func isLatitudeHemisphere(h string) bool { return h == "N" || h == "S" }

// ParseCoordinates reads a "lat, lng" pair in decimal, degree-minute or
// degree-minute-second notation, with optional hemisphere letters before or
// after each coordinate. Coordinates are rounded to 7 decimal places.
func ParseCoordinates(s string) (GeoPoint, bool) {
	m := coordinatesMatch.FindStringSubmatch(s)
	if m == nil {
		return GeoPoint{}, false
	}
	first, ok := parseCoordinate(m[1:6])
	if !ok {
		return GeoPoint{}, false
	}
	second, ok := parseCoordinate(m[6:11])
	if !ok {
		return GeoPoint{}, false
	}

	lat, lng := first, second
	if isLongitudeHemisphere(first.hemisphere) || isLatitudeHemisphere(second.hemisphere) {
		lat, lng = second, first
	}
	if isLongitudeHemisphere(lat.hemisphere) || isLatitudeHemisphere(lng.hemisphere) {
		return GeoPoint{}, false
	}
	if math.Abs(lat.value) > 90 || math.Abs(lng.value) > 180 {
		return GeoPoint{}, false
	}

	return GeoPoint{
		Lat: math.Round(lat.value*coordinateScale) / coordinateScale,
		Lng: math.Round(lng.value*coordinateScale) / coordinateScale,
	}, true
}

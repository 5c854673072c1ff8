// Package geojson provides the minimal GeoJSON document types this tool
// produces and consumes.
package geojson

// A FeatureCollection is the top-level GeoJSON document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeatureCollection returns an empty FeatureCollection whose features
// serialize as an empty array rather than null.
func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: []Feature{},
	}
}

// A Feature pairs a geometry with arbitrary properties.
type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// A Geometry is a GeoJSON geometry. This tool only ever produces points.
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

// NewPoint returns a Point geometry at the given coordinates.
func NewPoint(lon, lat float64) Geometry {
	return Geometry{
		Type:        "Point",
		Coordinates: []float64{lon, lat},
	}
}

package models

// GeoPoint is a GeoJSON point stored as [lng, lat], matching MongoDB's
// 2dsphere coordinate ordering.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type" default:"Point"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" validate:"required,coordinates"`
}

func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
	}
}

func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) >= 2 {
		return p.Coordinates[1]
	}
	return 0
}

func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) >= 1 {
		return p.Coordinates[0]
	}
	return 0
}

// Stop is a named point along a published route.
type Stop struct {
	Name          string   `json:"name" bson:"name"`
	Location      GeoPoint `json:"location" bson:"location"`
	Grid          string   `json:"grid" bson:"grid"`
	PickupAllowed bool     `json:"pickup_allowed" bson:"pickup_allowed"`
}

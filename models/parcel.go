package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Parcel — a user-drawn field boundary with farmer-provided metadata.
// Geometry is a GeoJSON Polygon or MultiPolygon stored as-is.
type Parcel struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"ownerId"       json:"ownerId"`
	Name        string             `bson:"name"          json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Geometry    map[string]any     `bson:"geometry"      json:"geometry"`
	AreaHa      *float64           `bson:"areaHa,omitempty" json:"areaHa,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

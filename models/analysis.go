package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NDVIAnalysis — persisted statistics for one parcel and one acquisition
// date. A compound unique index on (parcelId, analysisDate) guarantees at
// most one record per pair; repeated saves update in place.
type NDVIAnalysis struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ParcelID     primitive.ObjectID `bson:"parcelId"      json:"parcelId"`
	AnalysisDate time.Time          `bson:"analysisDate"  json:"analysisDate"`
	CreatedAt    time.Time          `bson:"createdAt"     json:"createdAt"`

	MeanNDVI   float64 `bson:"meanNdvi"   json:"mean_ndvi"`
	MedianNDVI float64 `bson:"medianNdvi" json:"median_ndvi"`
	StdDevNDVI float64 `bson:"stdDevNdvi" json:"std_dev_ndvi"`
	MinNDVI    float64 `bson:"minNdvi"    json:"min_ndvi"`
	MaxNDVI    float64 `bson:"maxNdvi"    json:"max_ndvi"`

	Percentile10 *float64 `bson:"percentile10,omitempty" json:"percentile_10,omitempty"`
	Percentile90 *float64 `bson:"percentile90,omitempty" json:"percentile_90,omitempty"`

	// Vegetation class fractions in [0,1]. They are not required to sum
	// to exactly 1 (see analysis handler validation).
	LowVegetation      *float64 `bson:"lowVegetation,omitempty"      json:"low_vegetation,omitempty"`
	ModerateVegetation *float64 `bson:"moderateVegetation,omitempty" json:"moderate_vegetation,omitempty"`
	HighVegetation     *float64 `bson:"highVegetation,omitempty"     json:"high_vegetation,omitempty"`

	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`
}

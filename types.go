package main

import "encoding/json"

// Request/response DTOs. Keep them minimal and explicit.

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token string `json:"token"`
}

type createParcelReq struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Geometry    json.RawMessage `json:"geometry"` // GeoJSON Polygon/MultiPolygon
	AreaHa      *float64        `json:"areaHa,omitempty"`
}

type saveAnalysisReq struct {
	AnalysisDate string `json:"analysis_date"` // YYYY-MM-DD

	MeanNDVI   float64 `json:"mean_ndvi"`
	MedianNDVI float64 `json:"median_ndvi"`
	StdDevNDVI float64 `json:"std_dev_ndvi"`
	MinNDVI    float64 `json:"min_ndvi"`
	MaxNDVI    float64 `json:"max_ndvi"`

	Percentile10 *float64 `json:"percentile_10,omitempty"`
	Percentile90 *float64 `json:"percentile_90,omitempty"`

	LowVegetation      *float64 `json:"low_vegetation,omitempty"`
	ModerateVegetation *float64 `json:"moderate_vegetation,omitempty"`
	HighVegetation     *float64 `json:"high_vegetation,omitempty"`

	Notes string `json:"notes,omitempty"`
}

type saveAnalysisResp struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Updated bool   `json:"updated"`
}

// areaDistribution — vegetation class fractions in [0,1].
type areaDistribution struct {
	LowVegetation      float64 `json:"low_vegetation"`
	ModerateVegetation float64 `json:"moderate_vegetation"`
	HighVegetation     float64 `json:"high_vegetation"`
}

// ndviStats — statistics payload returned by /ndvi-stats and flattened by
// the CSV export. DataSource states whether the numbers are measured pixels
// or a labeled estimate; consumers must not treat estimates as measurements.
type ndviStats struct {
	Mean             float64          `json:"mean"`
	Median           float64          `json:"median"`
	StdDev           float64          `json:"std_dev"`
	Min              float64          `json:"min"`
	Max              float64          `json:"max"`
	P10              float64          `json:"p10"`
	P90              float64          `json:"p90"`
	Count            int64            `json:"count"`
	AreaDistribution areaDistribution `json:"area_distribution"`
	DataSource       string           `json:"data_source"`
}

package main

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// Fixed output raster for every process request, both purposes.
const (
	outputWidth  = 512
	outputHeight = 512
)

const sentinelCollection = "sentinel-2-l2a"

type requestPurpose int

const (
	purposeVisualization requestPurpose = iota
	purposeStatistics
)

// processRequest mirrors the Sentinel Hub process API body.
type processRequest struct {
	Input      processInput  `json:"input"`
	Output     processOutput `json:"output"`
	Evalscript string        `json:"evalscript"`
}

type processInput struct {
	Bounds processBounds `json:"bounds"`
	Data   []processData `json:"data"`
}

type processBounds struct {
	Geometry *geojson.Geometry `json:"geometry"`
}

type processData struct {
	Type       string     `json:"type"`
	DataFilter dataFilter `json:"dataFilter"`
}

type dataFilter struct {
	TimeRange timeRange `json:"timeRange"`
}

type timeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type processOutput struct {
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Responses []processResponse `json:"responses"`
}

type processResponse struct {
	Identifier string         `json:"identifier"`
	Format     responseFormat `json:"format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// buildProcessRequest turns a parcel geometry and a YYYY-MM-DD date into a
// process request. Visualization asks for a 3-band PNG with the NDVI color
// ramp baked into the evalscript; statistics asks for the raw single-band
// raster over the same formula. The time filter always spans the full UTC
// day.
func buildProcessRequest(geom *geojson.Geometry, date string, purpose requestPurpose) *processRequest {
	req := &processRequest{
		Input: processInput{
			Bounds: processBounds{Geometry: geom},
			Data: []processData{{
				Type: sentinelCollection,
				DataFilter: dataFilter{TimeRange: timeRange{
					From: date + "T00:00:00Z",
					To:   date + "T23:59:59Z",
				}},
			}},
		},
		Output: processOutput{
			Width:  outputWidth,
			Height: outputHeight,
		},
	}
	switch purpose {
	case purposeVisualization:
		req.Output.Responses = []processResponse{{Identifier: "default", Format: responseFormat{Type: "image/png"}}}
		req.Evalscript = visualizationEvalscript
	case purposeStatistics:
		req.Output.Responses = []processResponse{{Identifier: "default", Format: responseFormat{Type: "image/tiff"}}}
		req.Evalscript = statisticsEvalscript
	}
	return req
}

// ndviColor is the canonical red-yellow-green ramp: negative NDVI is pure
// red, [0, 0.33) ramps red to yellow, [0.33, 1] ramps yellow down to dark
// green. The visualization evalscript must implement the same piecewise
// formula so server-rendered imagery matches local expectations.
func ndviColor(ndvi float64) (r, g, b float64) {
	switch {
	case ndvi < 0:
		return 1, 0, 0
	case ndvi < 0.33:
		return 1, ndvi / 0.33, 0
	default:
		return 0, 0.8 - (ndvi-0.33)*0.5, 0
	}
}

var visualizationEvalscript = fmt.Sprintf(`//VERSION=3
function setup() {
  return {
    input: ["B04", "B08"],
    output: { bands: 3, sampleType: "AUTO" }
  };
}
function evaluatePixel(sample) {
  let ndvi = (sample.B08 - sample.B04) / (sample.B08 + sample.B04);

  // Red (-1 to 0), red to yellow (0 to %[1]v), yellow to dark green (%[1]v to 1)
  let red = 0.0;
  let green = 0.0;
  let blue = 0.0;

  if (ndvi < 0) {
    red = 1.0;
  } else if (ndvi < %[1]v) {
    red = 1.0;
    green = ndvi / %[1]v;
  } else {
    green = %[2]v - (ndvi - %[1]v) * %[3]v;
  }

  return [red, green, blue];
}
`, 0.33, 0.8, 0.5)

const statisticsEvalscript = `//VERSION=3
function setup() {
  return {
    input: ["B04", "B08"],
    output: { bands: 1 }
  };
}
function evaluatePixel(sample) {
  let ndvi = (sample.B08 - sample.B04) / (sample.B08 + sample.B04);
  return [ndvi];
}
`

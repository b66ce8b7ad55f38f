package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testParcelGeoJSON = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {},
    "geometry": {
      "type": "Polygon",
      "coordinates": [[[13.82,45.85],[13.86,45.85],[13.86,45.88],[13.82,45.88],[13.82,45.85]]]
    }
  }]
}`

func testGeometry(t *testing.T) *geojson.Geometry {
	t.Helper()
	geom, err := parcelGeometry(testParcelGeoJSON)
	require.NoError(t, err)
	return geom
}

func TestBuildProcessRequestDimensionsAndWindow(t *testing.T) {
	geom := testGeometry(t)

	for _, purpose := range []requestPurpose{purposeVisualization, purposeStatistics} {
		req := buildProcessRequest(geom, "2024-06-15", purpose)

		assert.Equal(t, 512, req.Output.Width)
		assert.Equal(t, 512, req.Output.Height)

		require.Len(t, req.Input.Data, 1)
		assert.Equal(t, "sentinel-2-l2a", req.Input.Data[0].Type)
		assert.Equal(t, "2024-06-15T00:00:00Z", req.Input.Data[0].DataFilter.TimeRange.From)
		assert.Equal(t, "2024-06-15T23:59:59Z", req.Input.Data[0].DataFilter.TimeRange.To)
	}
}

func TestBuildProcessRequestOutputFormats(t *testing.T) {
	geom := testGeometry(t)

	viz := buildProcessRequest(geom, "2024-06-15", purposeVisualization)
	require.Len(t, viz.Output.Responses, 1)
	assert.Equal(t, "default", viz.Output.Responses[0].Identifier)
	assert.Equal(t, "image/png", viz.Output.Responses[0].Format.Type)
	assert.Contains(t, viz.Evalscript, "bands: 3")

	st := buildProcessRequest(geom, "2024-06-15", purposeStatistics)
	require.Len(t, st.Output.Responses, 1)
	assert.Equal(t, "image/tiff", st.Output.Responses[0].Format.Type)
	assert.Contains(t, st.Evalscript, "bands: 1")
	assert.NotContains(t, st.Evalscript, "red", "statistics output must carry no color mapping")
}

func TestBuildProcessRequestPayloadShape(t *testing.T) {
	req := buildProcessRequest(testGeometry(t), "2024-06-15", purposeStatistics)

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Contains(t, payload, "input")
	require.Contains(t, payload, "output")
	require.Contains(t, payload, "evalscript")

	input := payload["input"].(map[string]any)
	bounds := input["bounds"].(map[string]any)
	geom := bounds["geometry"].(map[string]any)
	assert.Equal(t, "Polygon", geom["type"])
}

func TestNdviColorGradient(t *testing.T) {
	// Negative NDVI is pure red.
	r, g, b := ndviColor(-0.5)
	assert.Equal(t, []float64{1, 0, 0}, []float64{r, g, b})

	// Zero sits on the pure red boundary of the red-to-yellow ramp.
	r, g, b = ndviColor(0)
	assert.Equal(t, []float64{1, 0, 0}, []float64{r, g, b})

	// Approaching 0.33 from below reaches pure yellow.
	r, g, b = ndviColor(0.33 - 1e-9)
	assert.InDelta(t, 1, r, 1e-6)
	assert.InDelta(t, 1, g, 1e-6)
	assert.Zero(t, b)

	// At 0.33 the green ramp takes over at its brightest.
	r, g, b = ndviColor(0.33)
	assert.Zero(t, r)
	assert.InDelta(t, 0.8, g, 1e-9)
	assert.Zero(t, b)

	// Full vegetation is the darkest green: 0.8 - (1-0.33)*0.5.
	r, g, b = ndviColor(1)
	assert.Zero(t, r)
	assert.InDelta(t, 0.465, g, 1e-9)
	assert.Zero(t, b)
}

func TestVisualizationEvalscriptMatchesGradient(t *testing.T) {
	for _, fragment := range []string{
		"(sample.B08 - sample.B04) / (sample.B08 + sample.B04)",
		"ndvi < 0.33",
		"ndvi / 0.33",
		"0.8 - (ndvi - 0.33) * 0.5",
	} {
		assert.Contains(t, visualizationEvalscript, fragment)
	}
	assert.True(t, strings.HasPrefix(visualizationEvalscript, "//VERSION=3"))
}

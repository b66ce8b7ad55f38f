package main

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func TestEstimatedStatsDefaults(t *testing.T) {
	st := estimatedNDVIStats(&gatewayResponse{ContentLength: 4096})

	assert.Equal(t, estimatedDataSource, st.DataSource)
	assert.Equal(t, int64(512*512), st.Count)
	assert.Equal(t, 0.45, st.Mean)
	assert.Equal(t, 0.48, st.Median)

	dist := st.AreaDistribution
	assert.GreaterOrEqual(t, dist.LowVegetation, 0.0)
	assert.GreaterOrEqual(t, dist.ModerateVegetation, 0.0)
	assert.GreaterOrEqual(t, dist.HighVegetation, 0.0)
}

func TestEstimatedStatsContentLengthRule(t *testing.T) {
	// Above the threshold the pixel count is refined from the byte size.
	st := estimatedNDVIStats(&gatewayResponse{ContentLength: 200000})
	assert.Equal(t, int64(50000), st.Count)

	// At or below it the canonical default applies.
	st = estimatedNDVIStats(&gatewayResponse{ContentLength: 100000})
	assert.Equal(t, defaultPixelCount, st.Count)

	// Absent content-length (chunked responses) also keeps the default.
	st = estimatedNDVIStats(&gatewayResponse{ContentLength: -1})
	assert.Equal(t, defaultPixelCount, st.Count)
}

// grayTIFF encodes a single-band 8-bit raster from the given pixel values.
func grayTIFF(t *testing.T, w, h int, pixels []uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	copy(img.Pix, pixels)
	var buf bytes.Buffer
	require.NoError(t, tiff.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestComputeRasterStats(t *testing.T) {
	// Values 51/102/153/204 decode to NDVI 0.2/0.4/0.6/0.8.
	raster := grayTIFF(t, 2, 2, []uint8{51, 102, 153, 204})

	st, err := computeRasterStats(raster)
	require.NoError(t, err)

	assert.Equal(t, measuredDataSource, st.DataSource)
	assert.Equal(t, int64(4), st.Count)
	assert.InDelta(t, 0.5, st.Mean, 1e-9)
	assert.InDelta(t, 0.5, st.Median, 1e-9)
	assert.InDelta(t, 0.2, st.Min, 1e-9)
	assert.InDelta(t, 0.8, st.Max, 1e-9)

	// Percentiles keep their ordering within the observed range.
	assert.LessOrEqual(t, st.Min, st.P10)
	assert.LessOrEqual(t, st.P10, st.Median)
	assert.LessOrEqual(t, st.Median, st.P90)
	assert.LessOrEqual(t, st.P90, st.Max)

	// 0.2 is low, 0.4 moderate, 0.6 and 0.8 high.
	assert.InDelta(t, 0.25, st.AreaDistribution.LowVegetation, 1e-9)
	assert.InDelta(t, 0.25, st.AreaDistribution.ModerateVegetation, 1e-9)
	assert.InDelta(t, 0.5, st.AreaDistribution.HighVegetation, 1e-9)

	sum := st.AreaDistribution.LowVegetation + st.AreaDistribution.ModerateVegetation + st.AreaDistribution.HighVegetation
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestComputeRasterStatsRejectsGarbage(t *testing.T) {
	_, err := computeRasterStats([]byte("not a tiff"))
	assert.Error(t, err)
}

func TestDeriveStatsPolicy(t *testing.T) {
	raster := grayTIFF(t, 2, 2, []uint8{51, 102, 153, 204})
	resp := &gatewayResponse{Status: 200, Body: raster, ContentLength: int64(len(raster))}

	// Engine unavailable: estimate, clearly labeled.
	off := &App{cfg: Config{RasterEngine: false}}
	st := off.deriveNDVIStats(resp)
	assert.Equal(t, estimatedDataSource, st.DataSource)

	// Engine available: measured pixels.
	on := &App{cfg: Config{RasterEngine: true}}
	st = on.deriveNDVIStats(resp)
	assert.Equal(t, measuredDataSource, st.DataSource)
	assert.Equal(t, int64(4), st.Count)

	// Engine available but raster undecodable: degrade to the estimate,
	// never an error and never mislabeled as measured.
	st = on.deriveNDVIStats(&gatewayResponse{Status: 200, Body: []byte("junk"), ContentLength: 4})
	assert.Equal(t, estimatedDataSource, st.DataSource)
}

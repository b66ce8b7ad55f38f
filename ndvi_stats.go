package main

import (
	"bytes"
	"fmt"
	"image"

	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/tiff"
)

// defaultPixelCount is the reported count when the gateway response carries
// no usable size signal: the full 512x512 output raster.
const defaultPixelCount = int64(outputWidth * outputHeight)

// contentLengthThreshold gates the only response-derived signal in the
// estimate path: responses larger than this refine the pixel count as
// content_length / 4.
const contentLengthThreshold = 100000

// Vegetation class boundaries for the area distribution.
const (
	lowVegetationMax      = 0.30
	moderateVegetationMax = 0.60
)

const (
	estimatedDataSource = "Sentinel Hub data (estimated values)"
	measuredDataSource  = "Sentinel Hub data (measured pixels)"
)

// deriveNDVIStats turns a successful gateway response into a statistics
// payload. With the raster engine enabled it computes true pixel statistics
// from the single-band raster; otherwise (or when decoding fails) it falls
// back to the labeled estimate. The fallback is deliberate degradation, not
// an error: the payload keeps the same shape and its data_source says it is
// an estimate.
func (a *App) deriveNDVIStats(resp *gatewayResponse) *ndviStats {
	if a.cfg.RasterEngine {
		st, err := computeRasterStats(resp.Body)
		if err == nil {
			return st
		}
		log.Warnf("raster decode failed, falling back to estimated statistics: %v", err)
	}
	return estimatedNDVIStats(resp)
}

// estimatedNDVIStats returns fixed values representative of typical
// agricultural land, labeled as estimates.
func estimatedNDVIStats(resp *gatewayResponse) *ndviStats {
	st := &ndviStats{
		Mean:   0.45,
		Median: 0.48,
		StdDev: 0.15,
		Min:    0.12,
		Max:    0.78,
		P10:    0.22,
		P90:    0.67,
		Count:  defaultPixelCount,
		AreaDistribution: areaDistribution{
			LowVegetation:      0.20,
			ModerateVegetation: 0.45,
			HighVegetation:     0.35,
		},
		DataSource: estimatedDataSource,
	}
	if resp != nil && resp.ContentLength > contentLengthThreshold {
		st.Count = resp.ContentLength / 4
	}
	return st
}

// computeRasterStats decodes the single-band raster and computes pixel
// statistics. The gateway's AUTO sample type clamps NDVI to [0,1] and scales
// it to 8-bit, so samples are mapped back with value/255.
func computeRasterStats(raster []byte) (*ndviStats, error) {
	img, err := tiff.Decode(bytes.NewReader(raster))
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}

	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("raster is not single-band, got %T", img)
	}

	bounds := gray.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n == 0 {
		return nil, fmt.Errorf("raster is empty")
	}

	values := make(stats.Float64Data, 0, n)
	var low, moderate, high int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := float64(gray.GrayAt(x, y).Y) / 255
			values = append(values, v)
			switch {
			case v < lowVegetationMax:
				low++
			case v < moderateVegetationMax:
				moderate++
			default:
				high++
			}
		}
	}

	mean, err := values.Mean()
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	median, err := values.Median()
	if err != nil {
		return nil, fmt.Errorf("median: %w", err)
	}
	stdDev, err := values.StandardDeviation()
	if err != nil {
		return nil, fmt.Errorf("std dev: %w", err)
	}
	min, err := values.Min()
	if err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	max, err := values.Max()
	if err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	p10, err := values.Percentile(10)
	if err != nil {
		return nil, fmt.Errorf("p10: %w", err)
	}
	p90, err := values.Percentile(90)
	if err != nil {
		return nil, fmt.Errorf("p90: %w", err)
	}

	total := float64(n)
	return &ndviStats{
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
		P10:    p10,
		P90:    p90,
		Count:  int64(n),
		AreaDistribution: areaDistribution{
			LowVegetation:      float64(low) / total,
			ModerateVegetation: float64(moderate) / total,
			HighVegetation:     float64(high) / total,
		},
		DataSource: measuredDataSource,
	}, nil
}

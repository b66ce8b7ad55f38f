package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"
)

const missingParamsMsg = "Missing required parameters: parcel_geojson, date"

// ndviParams extracts and validates the shared query parameters. Both must
// be present; the error message names both so the caller knows the full
// contract.
func ndviParams(r *http.Request) (raw, date string, err error) {
	raw = r.URL.Query().Get("parcel_geojson")
	date = r.URL.Query().Get("date")
	if raw == "" || date == "" {
		return "", "", fmt.Errorf("%s", missingParamsMsg)
	}
	return raw, date, nil
}

// parcelGeometry parses the GeoJSON FeatureCollection and returns the first
// feature's geometry, which bounds the process request.
func parcelGeometry(raw string) (*geojson.Geometry, error) {
	fc, err := geojson.UnmarshalFeatureCollection([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parse parcel_geojson: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("parcel_geojson has no features")
	}
	return geojson.NewGeometry(fc.Features[0].Geometry), nil
}

// handleNDVIImage proxies a rendered NDVI visualization for a parcel and
// date. Every failure mode still yields an image body: the caller renders
// the response in an image slot and must never receive bare error text.
func (a *App) handleNDVIImage(w http.ResponseWriter, r *http.Request) {
	raw, date, err := ndviParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	geom, err := parcelGeometry(raw)
	if err != nil {
		log.Errorf("ndvi-image: %v", err)
		w.Header().Set("Content-Type", svgContentType)
		w.Write(placeholderSVG("Error generating NDVI image", "Please try another date or area"))
		return
	}

	resp, err := a.sentinel.Process(r.Context(), buildProcessRequest(geom, date, purposeVisualization))
	if err != nil {
		log.Errorf("ndvi-image: %v", err)
		w.Header().Set("Content-Type", svgContentType)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(placeholderSVG("API Connection Error", err.Error()))
		return
	}
	if !resp.OK() {
		w.Header().Set("Content-Type", svgContentType)
		w.WriteHeader(resp.Status)
		w.Write(placeholderSVG("Error from Sentinel Hub API", string(resp.Body)))
		return
	}

	ct := resp.ContentType
	if ct == "" {
		ct = "image/png"
	}
	w.Header().Set("Content-Type", ct)
	w.Write(resp.Body)
}

// handleNDVIStats returns the statistics payload for a parcel and date.
// Upstream failures forward the upstream status code in a JSON error body.
func (a *App) handleNDVIStats(w http.ResponseWriter, r *http.Request) {
	raw, date, err := ndviParams(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	geom, err := parcelGeometry(raw)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := a.sentinel.Process(r.Context(), buildProcessRequest(geom, date, purposeStatistics))
	if err != nil {
		log.Errorf("ndvi-stats: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Error processing NDVI data: "+err.Error())
		return
	}
	if !resp.OK() {
		writeJSONError(w, resp.Status, "Error from Sentinel API: "+string(resp.Body))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.deriveNDVIStats(resp))
}

// handleExportNDVICSV flattens the statistics into a one-row CSV download.
// Vegetation fractions are exported as percentages.
func (a *App) handleExportNDVICSV(w http.ResponseWriter, r *http.Request) {
	raw, date, err := ndviParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	geom, err := parcelGeometry(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := a.sentinel.Process(r.Context(), buildProcessRequest(geom, date, purposeStatistics))
	if err != nil {
		log.Errorf("export-ndvi-csv: %v", err)
		http.Error(w, "Error exporting CSV: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if !resp.OK() {
		http.Error(w, "Error from Sentinel API: "+string(resp.Body), resp.Status)
		return
	}

	st := a.deriveNDVIStats(resp)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=ndvi_stats_%s.csv", date))
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"date", "mean_ndvi", "median_ndvi", "std_dev_ndvi", "min_ndvi", "max_ndvi",
		"percentile_10", "percentile_90", "pixel_count",
		"low_vegetation_pct", "moderate_vegetation_pct", "high_vegetation_pct",
		"data_source",
	})
	_ = cw.Write([]string{
		date,
		formatFloat(st.Mean),
		formatFloat(st.Median),
		formatFloat(st.StdDev),
		formatFloat(st.Min),
		formatFloat(st.Max),
		formatFloat(st.P10),
		formatFloat(st.P90),
		strconv.FormatInt(st.Count, 10),
		formatFloat(st.AreaDistribution.LowVegetation * 100),
		formatFloat(st.AreaDistribution.ModerateVegetation * 100),
		formatFloat(st.AreaDistribution.HighVegetation * 100),
		st.DataSource,
	})
	cw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

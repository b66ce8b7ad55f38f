package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"agriflow/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ownedParcelID resolves the {id} route param to a parcel owned by the
// current user. Callers get a 404 through the returned ok=false.
func (a *App) ownedParcelID(ctx context.Context, r *http.Request) (primitive.ObjectID, bool) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, false
	}
	err = a.parcels.FindOne(ctx, bson.M{"_id": oid, "ownerId": uid},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// handleListAnalyses returns all saved analyses for a parcel, oldest first.
func (a *App) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	pid, ok := a.ownedParcelID(ctx, r)
	if !ok {
		http.Error(w, "parcel not found", http.StatusNotFound)
		return
	}

	cur, err := a.analyses.Find(ctx, bson.M{"parcelId": pid},
		options.Find().SetSort(bson.D{{Key: "analysisDate", Value: 1}}))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	out := []models.NDVIAnalysis{}
	if err := cur.All(ctx, &out); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// analysisUpsertDocs builds the filter and update documents for saving an
// analysis. The filter carries the same (parcelId, analysisDate) key the
// unique index covers, so two saves for the same pair always target one
// record; createdAt goes through $setOnInsert and survives updates.
func analysisUpsertDocs(pid primitive.ObjectID, day time.Time, req saveAnalysisReq) (filter, update bson.M) {
	set := bson.M{
		"meanNdvi":   req.MeanNDVI,
		"medianNdvi": req.MedianNDVI,
		"stdDevNdvi": req.StdDevNDVI,
		"minNdvi":    req.MinNDVI,
		"maxNdvi":    req.MaxNDVI,
	}
	if req.Percentile10 != nil {
		set["percentile10"] = req.Percentile10
	}
	if req.Percentile90 != nil {
		set["percentile90"] = req.Percentile90
	}
	if req.LowVegetation != nil {
		set["lowVegetation"] = req.LowVegetation
	}
	if req.ModerateVegetation != nil {
		set["moderateVegetation"] = req.ModerateVegetation
	}
	if req.HighVegetation != nil {
		set["highVegetation"] = req.HighVegetation
	}
	if req.Notes != "" {
		set["notes"] = req.Notes
	}
	filter = bson.M{"parcelId": pid, "analysisDate": day}
	update = bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": time.Now()},
	}
	return filter, update
}

// handleSaveAnalysis upserts the analysis for (parcel, date): at most one
// record per pair, a repeated POST for the same date updates in place.
func (a *App) handleSaveAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	pid, ok := a.ownedParcelID(ctx, r)
	if !ok {
		http.Error(w, "parcel not found", http.StatusNotFound)
		return
	}

	var req saveAnalysisReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.AnalysisDate == "" {
		http.Error(w, "analysis_date is required", http.StatusBadRequest)
		return
	}
	day, err := time.ParseInLocation("2006-01-02", req.AnalysisDate, time.UTC)
	if err != nil {
		http.Error(w, "invalid date format, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	filter, update := analysisUpsertDocs(pid, day, req)
	res, err := a.analyses.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	if res.UpsertedCount > 0 {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(saveAnalysisResp{
			ID:      res.UpsertedID.(primitive.ObjectID).Hex(),
			Message: "Analysis saved successfully",
		})
		return
	}

	var out models.NDVIAnalysis
	if err := a.analyses.FindOne(ctx, bson.M{"parcelId": pid, "analysisDate": day}).Decode(&out); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(saveAnalysisResp{
		ID:      out.ID.Hex(),
		Message: "Analysis updated successfully",
		Updated: true,
	})
}

// handleGetAnalysis returns one analysis; ownership is enforced through the
// parent parcel.
func (a *App) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var an models.NDVIAnalysis
	if err := a.analyses.FindOne(ctx, bson.M{"_id": oid}).Decode(&an); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err := a.parcels.FindOne(ctx, bson.M{"_id": an.ParcelID, "ownerId": uid},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err(); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(an)
}

// handleDeleteAnalysis removes one analysis owned by the user.
func (a *App) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var an models.NDVIAnalysis
	if err := a.analyses.FindOne(ctx, bson.M{"_id": oid}).Decode(&an); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err := a.parcels.FindOne(ctx, bson.M{"_id": an.ParcelID, "ownerId": uid},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err(); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if _, err := a.analyses.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"agriflow/models"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// parseParcelGeometry validates the GeoJSON geometry and reports its area in
// hectares.
func parseParcelGeometry(raw json.RawMessage) (bson.M, float64, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, 0, err
	}
	switch g.Type {
	case "Polygon", "MultiPolygon":
	default:
		return nil, 0, errBadGeometryType
	}
	var doc bson.M
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, 0, err
	}
	areaHa := geo.Area(g.Geometry()) / 10000
	return doc, areaHa, nil
}

var errBadGeometryType = errors.New("geometry.type must be Polygon or MultiPolygon")

// handleCreateParcel inserts a new parcel. The area is computed from the
// geometry when the caller does not provide one.
func (a *App) handleCreateParcel(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)

	var req createParcelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || len(req.Geometry) == 0 {
		http.Error(w, "name and geometry are required", http.StatusBadRequest)
		return
	}

	geom, areaHa, err := parseParcelGeometry(req.Geometry)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	p := models.Parcel{
		OwnerID:     uid,
		Name:        req.Name,
		Description: req.Description,
		Geometry:    geom,
		AreaHa:      req.AreaHa,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.AreaHa == nil {
		p.AreaHa = &areaHa
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res, err := a.parcels.InsertOne(ctx, &p)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// handleListParcels returns the current user's parcels.
func (a *App) handleListParcels(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.parcels.Find(ctx, bson.M{"ownerId": uid}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	out := []models.Parcel{}
	if err := cur.All(ctx, &out); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleGetParcel returns a single parcel by id (owned by the user).
func (a *App) handleGetParcel(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var p models.Parcel
	if err := a.parcels.FindOne(ctx, bson.M{"_id": oid, "ownerId": uid}).Decode(&p); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(p)
}

// handleUpdateParcel updates name/description/geometry/area if provided.
func (a *App) handleUpdateParcel(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	var req createParcelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if len(req.Geometry) > 0 {
		geom, areaHa, err := parseParcelGeometry(req.Geometry)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		set["geometry"] = geom
		if req.AreaHa == nil {
			set["areaHa"] = areaHa
		}
	}
	if req.AreaHa != nil {
		set["areaHa"] = req.AreaHa
	}
	if len(set) == 0 {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}
	set["updatedAt"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res := a.parcels.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "ownerId": uid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var out models.Parcel
	if err := res.Decode(&out); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleDeleteParcel removes a parcel and its saved analyses.
func (a *App) handleDeleteParcel(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := a.parcels.DeleteOne(ctx, bson.M{"_id": oid, "ownerId": uid})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_, _ = a.analyses.DeleteMany(ctx, bson.M{"parcelId": oid})
	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"encoding/json"
	"errors"
	"io"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/footprint/pkg/buildinfo"
	"github.com/matzehuels/footprint/pkg/catalog"
	ferrors "github.com/matzehuels/footprint/pkg/errors"
	"github.com/matzehuels/footprint/pkg/pipeline"
	"github.com/matzehuels/footprint/pkg/render"
	"github.com/matzehuels/footprint/pkg/store"
	"github.com/matzehuels/footprint/pkg/units"
)

// buildResponse is the body of a successful POST /builds.
type buildResponse struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	ModelHash string       `json:"model_hash"`
	Formats   []string     `json:"formats"`
	Artifacts []string     `json:"artifacts"`
	Stats     buildStats   `json:"stats"`
	Cache     cacheSummary `json:"cache"`
}

type buildStats struct {
	Walls       int     `json:"walls"`
	Openings    int     `json:"openings"`
	Elements    int     `json:"elements,omitempty"`
	PerimeterMM float64 `json:"perimeter_mm"`
	ComputeMS   int64   `json:"compute_ms"`
	RealizeMS   int64   `json:"realize_ms,omitempty"`
	RenderMS    int64   `json:"render_ms"`
}

type cacheSummary struct {
	Compute bool `json:"compute"`
	Render  bool `json:"render"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": info.Version,
		"commit":  info.Commit,
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"formats": render.Formats()})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	var category catalog.Category
	if c := r.URL.Query().Get("category"); c != "" {
		var err error
		if category, err = catalog.ParseCategory(c); err != nil {
			s.respondErr(w, r, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"symbols": s.catalog.List(category)})
}

func (s *Server) handleCreateBuild(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decodeOptions(r)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	rec := &store.Record{
		Options:   opts,
		Model:     result.Model,
		ModelHash: result.ModelHash,
		Formats:   slices.Sorted(maps.Keys(result.Artifacts)),
		Elements:  result.Stats.Elements,
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.logger.Info("stored build", "id", rec.ID, "hash", short(rec.ModelHash), "cached", result.CacheInfo.ComputeHit)

	w.Header().Set("Location", "/api/v1/builds/"+rec.ID)
	respondJSON(w, http.StatusCreated, buildResponse{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		ModelHash: rec.ModelHash,
		Formats:   rec.Formats,
		Artifacts: artifactLinks(rec),
		Stats: buildStats{
			Walls:       result.Stats.Walls,
			Openings:    result.Stats.Openings,
			Elements:    result.Stats.Elements,
			PerimeterMM: units.ToMM(result.Stats.Perimeter),
			ComputeMS:   result.Stats.ComputeTime.Milliseconds(),
			RealizeMS:   result.Stats.RealizeTime.Milliseconds(),
			RenderMS:    result.Stats.RenderTime.Milliseconds(),
		},
		Cache: cacheSummary{Compute: result.CacheInfo.ComputeHit, Render: result.CacheInfo.RenderHit},
	})
}

func (s *Server) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondErr(w, r, ferrors.InvalidArgument("limit must be a non-negative integer, got %q", v))
			return
		}
		limit = n
	}
	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if records == nil {
		records = []*store.Record{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"builds": records, "count": len(records)})
}

func (s *Server) handleGetBuild(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteBuild(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := render.ValidateFormat(format); err != nil {
		s.respondErr(w, r, err)
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	artifacts, _, err := s.runner.RenderWithCacheInfo(r.Context(), rec.Model, rec.ModelHash, pipeline.Options{
		Formats: []string{format},
		Scale:   rec.Options.Scale,
		Catalog: s.catalog,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// decodeOptions overlays the request body on the server defaults. An empty
// body builds the defaults.
func (s *Server) decodeOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Levels = slices.Clone(s.defaults.Levels)
	opts.Formats = slices.Clone(s.defaults.Formats)

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return pipeline.Options{}, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "invalid request body")
	}
	opts.Catalog = s.catalog
	opts.Logger = s.logger
	return opts, nil
}

func artifactLinks(rec *store.Record) []string {
	links := make([]string, len(rec.Formats))
	for i, f := range rec.Formats {
		links[i] = "/api/v1/builds/" + rec.ID + "/artifacts/" + f
	}
	return links
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

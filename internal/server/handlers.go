package server

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowbox/pkg/errors"
	"github.com/matzehuels/flowbox/pkg/httputil"
	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/pipeline"
	"github.com/matzehuels/flowbox/pkg/scene"
	"github.com/matzehuels/flowbox/pkg/store"
)

// LayoutResponse is the body of a created or fetched layout.
type LayoutResponse struct {
	ID        string            `json:"id"`
	SceneHash string            `json:"scene_hash"`
	CreatedAt time.Time         `json:"created_at"`
	Cached    bool              `json:"cached,omitempty"`
	Layout    layoutfile.Layout `json:"layout"`
}

// LayoutSummary is one entry of the layout listing.
type LayoutSummary struct {
	ID        string    `json:"id"`
	Scene     string    `json:"scene"`
	SceneHash string    `json:"scene_hash"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Lines     int       `json:"lines"`
	Blocks    int       `json:"blocks"`
	CreatedAt time.Time `json:"created_at"`
}

// ListResponse is the body of the layout listing.
type ListResponse struct {
	Layouts []LayoutSummary `json:"layouts"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:       "image/svg+xml",
	pipeline.FormatPNG:       "image/png",
	pipeline.FormatPDF:       "application/pdf",
	pipeline.FormatJSON:      "application/json",
	pipeline.FormatDOT:       "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatStructure: "image/svg+xml",
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read scene document"))
		return
	}
	if len(data) == 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "empty scene document"))
		return
	}

	format := scene.FormatFromContentType(r.Header.Get("Content-Type"))
	if f := q.Get("format"); f != "" {
		if format, err = scene.ParseFormat(f); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	opts, err := layoutOptions(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Document = string(data)
	opts.DocumentFormat = string(format)

	sc, err := pipeline.Load(ctx, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	hash, err := pipeline.SceneHash(sc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	layout, hit, err := s.runner.ComputeLayoutWithCacheInfo(ctx, sc, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.store.Save(ctx, hash, layout)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("stored layout", "id", rec.ID, "scene", sc.Title(), "lines", len(layout.Lines), "cached", hit)
	w.Header().Set("Location", "/v1/layouts/"+rec.ID)
	_ = httputil.WriteJSON(w, http.StatusCreated, LayoutResponse{
		ID:        rec.ID,
		SceneHash: rec.SceneHash,
		CreatedAt: rec.CreatedAt,
		Cached:    hit,
		Layout:    rec.Layout,
	})
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := ListResponse{Layouts: make([]LayoutSummary, len(recs))}
	for i, rec := range recs {
		resp.Layouts[i] = LayoutSummary{
			ID:        rec.ID,
			Scene:     rec.Layout.Scene,
			SceneHash: rec.SceneHash,
			Width:     rec.Layout.Width,
			Height:    rec.Layout.Height,
			Lines:     len(rec.Layout.Lines),
			Blocks:    len(rec.Layout.Blocks),
			CreatedAt: rec.CreatedAt,
		}
	}
	_ = httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.record(w, r)
	if !ok {
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, LayoutResponse{
		ID:        rec.ID,
		SceneHash: rec.SceneHash,
		CreatedAt: rec.CreatedAt,
		Layout:    rec.Layout,
	})
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := renderOptions(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{format}

	rec, ok := s.record(w, r)
	if !ok {
		return
	}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), rec.Layout, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// record loads the layout named by the id URL parameter.
func (s *Server) record(w http.ResponseWriter, r *http.Request) (store.Record, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		s.fail(w, r, err)
		return store.Record{}, false
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return store.Record{}, false
	}
	return rec, true
}

// layoutOptions reads layout overrides from query parameters.
func layoutOptions(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error
	if opts.Width, err = intParam(q, "width"); err != nil {
		return opts, err
	}
	if opts.Height, err = intParam(q, "height"); err != nil {
		return opts, err
	}
	if opts.MaxLines, err = intParam(q, "max_lines"); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q, "refresh"); err != nil {
		return opts, err
	}
	opts.Orientation = q.Get("orientation")
	opts.Direction = q.Get("direction")
	opts.Gravity = q.Get("gravity")
	return opts, opts.ValidateForLayout()
}

// renderOptions reads render options from query parameters.
func renderOptions(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{Style: q.Get("style")}
	flags := map[string]*bool{
		"labels":      &opts.Labels,
		"lines":       &opts.Lines,
		"interactive": &opts.Interactive,
		"detailed":    &opts.Detailed,
		"refresh":     &opts.Refresh,
	}
	for name, dst := range flags {
		v, err := boolParam(q, name)
		if err != nil {
			return opts, err
		}
		*dst = v
	}
	if s := q.Get("scale"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale")
		}
		opts.Scale = v
	}
	return opts, nil
}

func intParam(q url.Values, name string) (int, error) {
	s := q.Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be an integer", name)
	}
	return v, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	s := q.Get(name)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be a boolean", name)
	}
	return v, nil
}

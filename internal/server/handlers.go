package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/snowball/pkg/buildinfo"
	serrors "github.com/matzehuels/snowball/pkg/errors"
	"github.com/matzehuels/snowball/pkg/pipeline"
	"github.com/matzehuels/snowball/pkg/scenario"
)

// RenderRequest is the body of POST /v1/render. Exactly one of Scenario
// and Builtin must be set.
type RenderRequest struct {
	// Scenario is a scenario script in TOML.
	Scenario string `json:"scenario,omitempty"`

	// Builtin names an embedded scenario.
	Builtin string `json:"builtin,omitempty"`

	// Format is the artifact to return. Defaults to lottie.
	Format string `json:"format,omitempty"`

	// Options tune the run. Options.Formats is ignored in favour of Format.
	Options pipeline.Options `json:"options"`
}

// ScenarioSummary describes a built-in scenario in GET /v1/scenarios.
type ScenarioSummary struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Nodes       int     `json:"nodes"`
	Steps       int     `json:"steps"`
	Seconds     float64 `json:"seconds"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) listScenarios(w http.ResponseWriter, r *http.Request) {
	names := scenario.Names()
	out := make([]ScenarioSummary, 0, len(names))
	for _, name := range names {
		sc, err := scenario.Builtin(name)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		out = append(out, ScenarioSummary{
			Name:        sc.Name,
			Description: sc.Description,
			Nodes:       sc.NodeCount(),
			Steps:       sc.TotalSteps(),
			Seconds:     sc.Duration(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) showScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := scenario.Builtin(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := sc.Marshal()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// renderBuiltin renders a built-in scenario with options from the query
// string: policy, workers, scale, labels, node_size, gif_every, gif_delay.
func (s *Server) renderBuiltin(w http.ResponseWriter, r *http.Request) {
	sc, err := scenario.Builtin(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := queryOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.run(w, r, sc, chi.URLParam(r, "format"), opts)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, serrors.Wrap(serrors.ErrCodeTooLarge, err, "request body"))
			return
		}
		s.fail(w, r, serrors.Wrap(serrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	var (
		sc  *scenario.Scenario
		err error
	)
	switch {
	case req.Scenario != "" && req.Builtin != "":
		err = serrors.New(serrors.ErrCodeInvalidInput, "set either scenario or builtin, not both")
	case req.Scenario != "":
		sc, err = scenario.Parse([]byte(req.Scenario))
	case req.Builtin != "":
		sc, err = scenario.Builtin(req.Builtin)
	default:
		err = serrors.New(serrors.ErrCodeInvalidInput, "missing scenario")
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.run(w, r, sc, req.Format, req.Options)
}

// run executes sc for a single format and writes the artifact.
func (s *Server) run(w http.ResponseWriter, r *http.Request, sc *scenario.Scenario, format string, opts pipeline.Options) {
	if format == "" {
		format = pipeline.FormatLottie
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{format}
	opts.Workers = min(opts.Workers, s.maxWorkers)
	opts.Logger = s.logger

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	case <-ctx.Done():
		writeError(w, http.StatusServiceUnavailable, string(serrors.ErrCodeTimeout), "server busy", "")
		return
	}

	result, err := s.runner.Execute(ctx, sc, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", pipeline.Filename(sc.Name, format)))
	w.Header().Set("X-Run-ID", result.RunID)
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

func cacheStatus(info pipeline.CacheInfo) string {
	switch {
	case info.RenderHit:
		return "hit"
	case info.SceneHit:
		return "scene"
	}
	return "miss"
}

// queryOptions reads pipeline options from the query string.
func queryOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Policy: q.Get("policy")}
	ints := []struct {
		key string
		dst *int
	}{
		{"workers", &opts.Workers},
		{"node_size", &opts.NodeSize},
		{"gif_every", &opts.GIFEvery},
		{"gif_delay", &opts.GIFDelay},
	}
	for _, p := range ints {
		if v := q.Get(p.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, serrors.Wrap(serrors.ErrCodeInvalidInput, err, "query %s", p.key)
			}
			*p.dst = n
		}
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, serrors.Wrap(serrors.ErrCodeInvalidInput, err, "query scale")
		}
		opts.Scale = f
	}
	for _, key := range []string{"labels", "refresh"} {
		if v := q.Get(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, serrors.Wrap(serrors.ErrCodeInvalidInput, err, "query %s", key)
			}
			if key == "labels" {
				opts.Labels = b
			} else {
				opts.Refresh = b
			}
		}
	}
	return opts, nil
}

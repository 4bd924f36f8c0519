package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"gotreat/app"
	"gotreat/domain/catalog"
	"gotreat/domain/simulation"
	apperrors "gotreat/internal/errors"
	"gotreat/internal/profiling"
	"gotreat/internal/report"
	"gotreat/ports"

	"github.com/go-chi/chi/v5"
)

// SimulationRequest is the body of POST /simulations. Zero numeric options
// fall back to the server defaults.
type SimulationRequest struct {
	app.ScenarioSpec
	CaseStudy  string  `json:"case_study,omitempty"`
	Runs       int     `json:"n_runs,omitempty"`
	Resolution int     `json:"removal_factor_resolution,omitempty"`
	PriorPower float64 `json:"prior_power,omitempty"`
	Seed       *uint64 `json:"seed,omitempty"`
}

// SimulationResponse is the JSON rendering of a simulation result.
type SimulationResponse struct {
	Manifest              simulation.Manifest       `json:"manifest"`
	Scenario              string                    `json:"scenario"`
	OutputMatrix          string                    `json:"output_matrix"`
	Treatments            []simulation.TreatmentRow `json:"treatments"`
	Concentration         []simulation.Summary      `json:"concentration"`
	Removal               []simulation.Summary      `json:"removal"`
	Shapes                []profiling.Shape         `json:"shapes,omitempty"`
	Reference             catalog.Reference         `json:"reference"`
	ExceedanceProbability float64                   `json:"exceedance_probability"`
}

type treatmentView struct {
	ID            string   `json:"id"`
	Group         string   `json:"group"`
	Name          string   `json:"name"`
	InputMatrices []string `json:"input_matrices"`
	OutputMatrix  string   `json:"output_matrix,omitempty"`
	NeedsMixture  bool     `json:"requires_mixture"`
}

func newTreatmentView(t catalog.Treatment) treatmentView {
	return treatmentView{
		ID:            t.ID,
		Group:         string(t.Group),
		Name:          t.Name,
		InputMatrices: t.InputMatrixIDs(),
		OutputMatrix:  t.OutputMatrix.ID,
		NeedsMixture:  t.RequiresMixture(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": simulation.CodeVersion})
}

func (s *Server) handleListTreatments(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	var out []treatmentView
	for _, t := range catalog.Treatments() {
		if group != "" && string(t.Group) != group {
			continue
		}
		out = append(out, newTreatmentView(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTreatment(w http.ResponseWriter, r *http.Request) {
	t, err := catalog.TreatmentByID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, apperrors.Wrap(err, "unknown treatment"))
		return
	}
	writeJSON(w, http.StatusOK, newTreatmentView(t))
}

func (s *Server) handleListSubstances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Substances())
}

func (s *Server) handleListMatrices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Matrices())
}

func (s *Server) handleListCaseStudies(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.caseStudies))
	for name := range s.caseStudies {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, names)
}

// handleSimulate runs one scenario. The format query parameter selects the
// rendering: json (default), markdown, html or xlsx.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, apperrors.InvalidInput(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	sc, err := req.Build()
	if err != nil {
		s.writeError(w, apperrors.Wrap(err, "invalid scenario"))
		return
	}

	var cs ports.CaseStudyProvider
	if req.CaseStudy != "" {
		found, ok := s.caseStudies[req.CaseStudy]
		if !ok {
			s.writeError(w, apperrors.NotFound(fmt.Sprintf("case study %q", req.CaseStudy)))
			return
		}
		cs = found
	}

	opts, err := s.options(req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.simulator.Simulate(r.Context(), app.SimulationRequest{Scenario: sc, Options: opts, CaseStudy: cs})
	if err != nil {
		s.writeError(w, apperrors.Wrap(err, "simulation failed"))
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		resp, err := newSimulationResponse(res)
		if err != nil {
			s.writeError(w, apperrors.Wrap(err, "failed to summarise result"))
			return
		}
		writeJSON(w, http.StatusOK, resp)
	case "markdown":
		s.writeRendered(w, "text/markdown; charset=utf-8", res, report.Markdown)
	case "html":
		s.writeRendered(w, "text/html; charset=utf-8", res, report.HTML)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Scenario+s.exporter.Extension()))
		if err := s.exporter.WriteTo(r.Context(), res, w); err != nil {
			s.logger.Error("failed to write workbook: %v", err)
		}
	default:
		s.writeError(w, apperrors.InvalidInput(fmt.Sprintf("unknown format %q", format)))
	}
}

func (s *Server) writeRendered(w http.ResponseWriter, contentType string, res *simulation.Result, render func(*simulation.Result) ([]byte, error)) {
	body, err := render(res)
	if err != nil {
		s.writeError(w, apperrors.Wrap(err, "failed to render report"))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// options overlays the request on the server defaults and enforces the
// configured caps on runs and resolution.
func (s *Server) options(req SimulationRequest) (simulation.Options, error) {
	opts := simulation.Options{
		Runs:       s.defaults.Runs,
		Resolution: s.defaults.Resolution,
		PriorPower: s.defaults.PriorPower,
		Seed:       s.defaults.Seed,
	}
	if req.Runs > 0 {
		opts.Runs = req.Runs
	}
	if req.Resolution > 0 {
		opts.Resolution = req.Resolution
	}
	if req.PriorPower > 0 {
		opts.PriorPower = req.PriorPower
	}
	if req.Seed != nil {
		opts.Seed = *req.Seed
	}
	if s.defaults.MaxRuns > 0 && opts.Runs > s.defaults.MaxRuns {
		return opts, apperrors.InvalidInput(fmt.Sprintf("n_runs %d exceeds the limit of %d", opts.Runs, s.defaults.MaxRuns))
	}
	if s.defaults.MaxResolution > 0 && opts.Resolution > s.defaults.MaxResolution {
		return opts, apperrors.InvalidInput(fmt.Sprintf("removal_factor_resolution %d exceeds the limit of %d", opts.Resolution, s.defaults.MaxResolution))
	}
	return opts, nil
}

func newSimulationResponse(res *simulation.Result) (*SimulationResponse, error) {
	conc, err := res.DescribeOutput()
	if err != nil {
		return nil, err
	}
	rmv, err := res.DescribeRemoval()
	if err != nil {
		return nil, err
	}
	resp := &SimulationResponse{
		Manifest:      res.Manifest,
		Scenario:      res.Scenario,
		OutputMatrix:  res.OutputMatrix.ID,
		Treatments:    res.TreatmentTable(),
		Concentration: conc,
		Removal:       rmv,
		Reference:     res.Reference,
	}
	if res.Runs >= 4 {
		if resp.Shapes, err = profiling.AnalyzeAll(res.OutputConcentrationTable()); err != nil {
			return nil, err
		}
	}
	if res.Reference.ValueNgL > 0 {
		if resp.ExceedanceProbability, err = res.ExceedanceProbability(); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	diamonds "github.com/Dav3whit3/ih-datamadpt0420-project-m2"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/render"
	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/schema"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())

	mux.HandleFunc("GET /api/controls", s.handleControls)
	mux.HandleFunc("GET /api/chart", s.handleChart)
	mux.HandleFunc("POST /api/chart", s.handleChart)
	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /chart.png", s.handleChartPNG)
	mux.HandleFunc("GET /overview.png", s.handleOverviewPNG)

	mux.HandleFunc("GET /export/chart.csv", s.handleChartCSV)
	mux.HandleFunc("GET /export/table.csv", s.handleTableCSV)
	mux.HandleFunc("GET /export/table.xlsx", s.handleTableXLSX)

	var h http.Handler = mux
	h = recoverer(s.logger, h)
	h = instrument(s.metrics, h)
	h = accessLog(s.logger, h)
	h = withRequestID(h)
	return h
}

// ============================================================================
// PAGE + METADATA
// ============================================================================

type pageData struct {
	Title    string
	Records  int
	Controls schema.Controls
	State    engine.ControlState
	Columns  []columnOption
}

type columnOption struct {
	Name    string
	Checked bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	state := s.controls.DefaultState()
	checked := make(map[string]bool, len(state.SelectedColumns))
	for _, c := range state.SelectedColumns {
		checked[c] = true
	}
	columns := make([]columnOption, 0, len(s.controls.Columns))
	for _, c := range s.controls.Columns {
		columns = append(columns, columnOption{Name: c, Checked: checked[c]})
	}
	data := pageData{
		Title:    s.ds.Name(),
		Records:  s.ds.Len(),
		Controls: s.controls,
		State:    state,
		Columns:  columns,
	}
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("render page", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"dataset": s.ds.Name(),
		"records": s.ds.Len(),
		"version": diamonds.Version,
	})
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controls)
}

// ============================================================================
// JSON APIS
// ============================================================================

// state parses and normalizes the request's control state. On error the
// response has already been written.
func (s *Server) state(w http.ResponseWriter, r *http.Request) (engine.ControlState, bool) {
	state, err := s.stateFromRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return engine.ControlState{}, false
	}
	return engine.NormalizeControlState(state, s.ds.View(), s.engineOpts...), true
}

func (s *Server) chart(state engine.ControlState) *engine.ChartConfig {
	return engine.ComputeChart(state, s.ds.View(), s.engineOpts...)
}

func (s *Server) overview(state engine.ControlState) *engine.Overview {
	return engine.ComputeOverview(state.TableMode, state.SelectedColumns, s.ds.View(), s.engineOpts...)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	state, ok := s.state(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.chart(state))
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	state, ok := s.state(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.overview(state))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	state, ok := s.state(w, r)
	if !ok {
		return
	}
	res, err := engine.Execute(state, s.ds.View(), s.engineOpts...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.matchedRecords.Observe(float64(res.Summary.Matched))
	writeJSON(w, http.StatusOK, res)
}

// ============================================================================
// IMAGES
// ============================================================================

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	state, ok := s.state(w, r)
	if !ok {
		return
	}
	s.writePNG(w, r, s.chart(state))
}

func (s *Server) handleOverviewPNG(w http.ResponseWriter, r *http.Request) {
	state, ok := s.state(w, r)
	if !ok {
		return
	}
	ov := s.overview(state)
	if ov.Chart == nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("table mode %q has no chart", state.TableMode))
		return
	}
	s.writePNG(w, r, ov.Chart)
}

func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, spec *engine.ChartConfig) {
	var buf bytes.Buffer
	if err := render.ChartPNG(&buf, spec, s.size, render.WithLogger(s.logger)); err != nil {
		s.logger.Error("render chart", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// ============================================================================
// EXPORTS
// ============================================================================

func (s *Server) handleChartCSV(w http.ResponseWriter, r *http.Request) {
	state, ok := s.state(w, r)
	if !ok {
		return
	}
	chart := s.chart(state)
	s.writeFile(w, r, "chart.csv", "text/csv; charset=utf-8", func(out io.Writer) error {
		return render.ChartCSV(out, chart)
	})
}

func (s *Server) handleTableCSV(w http.ResponseWriter, r *http.Request) {
	state, ok := s.state(w, r)
	if !ok {
		return
	}
	ov := s.overview(state)
	s.writeFile(w, r, "table.csv", "text/csv; charset=utf-8", func(out io.Writer) error {
		if ov.Chart != nil {
			return render.ChartCSV(out, ov.Chart)
		}
		return render.TableCSV(out, ov.Table)
	})
}

func (s *Server) handleTableXLSX(w http.ResponseWriter, r *http.Request) {
	state, ok := s.state(w, r)
	if !ok {
		return
	}
	ov := s.overview(state)
	const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	s.writeFile(w, r, "table.xlsx", xlsxType, func(out io.Writer) error {
		if ov.Chart != nil {
			return render.ChartXLSX(out, ov.Chart)
		}
		return render.TableXLSX(out, ov.Table)
	})
}

// writeFile buffers the export so a failure can still become a JSON error.
func (s *Server) writeFile(w http.ResponseWriter, r *http.Request, name, contentType string, write func(io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		s.logger.Error("export failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("file", name),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(buf.Bytes())
}

// ============================================================================
// RESPONSE HELPERS
// ============================================================================

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		b, _ = json.Marshal(errorBody{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(b, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

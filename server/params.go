package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Dav3whit3/ih-datamadpt0420-project-m2/engine"
)

// ============================================================================
// CONTROL PARSING — HTTP request → engine.ControlState
// ============================================================================
// Query parameters:
//   priceMin, priceMax  range bounds (a missing one takes the slider bound;
//                       both missing means no range constraint)
//   color               category constraint ("all" = none)
//   columns             repeatable or comma separated
//   kind                chart kind
//   tableMode           overview mode
//
// Malformed numbers are the only parse errors. Unknown kinds, modes and
// columns are left for the engine to turn into empty output.
// ============================================================================

type paramError struct {
	param string
	value string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid %s: %q is not a number", e.param, e.value)
}

// stateFromRequest reads a control state from a JSON body (POST) or the
// query string.
func (s *Server) stateFromRequest(w http.ResponseWriter, r *http.Request) (engine.ControlState, error) {
	if r.Method == http.MethodPost {
		var state engine.ControlState
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
		if err := dec.Decode(&state); err != nil {
			return engine.ControlState{}, fmt.Errorf("invalid control state body: %w", err)
		}
		if state.PriceRange != nil && (isBad(state.PriceRange[0]) || isBad(state.PriceRange[1])) {
			return engine.ControlState{}, fmt.Errorf("invalid priceRange")
		}
		return state, nil
	}
	return s.stateFromQuery(r.URL.Query())
}

func (s *Server) stateFromQuery(q url.Values) (engine.ControlState, error) {
	state := engine.ControlState{
		ColorConstraint: q.Get("color"),
		SelectedColumns: splitColumns(q["columns"]),
		ChartKind:       q.Get("kind"),
		TableMode:       q.Get("tableMode"),
	}

	lo, hasLo, err := floatParam(q, "priceMin")
	if err != nil {
		return engine.ControlState{}, err
	}
	hi, hasHi, err := floatParam(q, "priceMax")
	if err != nil {
		return engine.ControlState{}, err
	}
	if hasLo || hasHi {
		if !hasLo {
			lo = s.controls.RangeMin
		}
		if !hasHi {
			hi = s.controls.RangeMax
		}
		state.PriceRange = &[2]float64{lo, hi}
	}
	return state, nil
}

func floatParam(q url.Values, name string) (float64, bool, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || isBad(v) {
		return 0, false, &paramError{param: name, value: raw}
	}
	return v, true, nil
}

func isBad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// splitColumns flattens repeated and comma separated column values.
func splitColumns(values []string) []string {
	var out []string
	for _, v := range values {
		for _, col := range strings.Split(v, ",") {
			if col = strings.TrimSpace(col); col != "" {
				out = append(out, col)
			}
		}
	}
	return out
}

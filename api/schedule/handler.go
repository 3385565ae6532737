// Package schedule exposes the scheduling engine over HTTP as JSON.
package schedule

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/buildsite/crewplan/core/model"
	core "github.com/buildsite/crewplan/core/schedule"
)

// Computer produces a scheduling result for the given parameters.
type Computer interface {
	Compute(p core.Params) (*model.Result, error)
}

// ParseParams reads scheduler parameters from query values, falling back to
// the given defaults for absent keys. Invalid numbers are reported, not
// silently defaulted.
func ParseParams(q url.Values, defaults core.Params) (core.Params, error) {
	p := defaults
	if raw := q.Get("cap"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return p, &ParamError{Name: "cap", Value: raw}
		}
		p.LabourCap = v
	}
	if raw := q.Get("target"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return p, &ParamError{Name: "target", Value: raw}
		}
		p.TargetDays = v
	}
	if vals := multi(q, "sections"); len(vals) > 0 {
		p.Sections = vals
	}
	if vals := multi(q, "subsections"); len(vals) > 0 {
		p.Subsections = vals
	}
	return p, nil
}

// ParamError reports an unparseable query parameter.
type ParamError struct {
	Name  string
	Value string
}

func (e *ParamError) Error() string {
	return "invalid " + e.Name + " parameter: " + e.Value
}

// multi collects repeated and comma-separated values for a key.
func multi(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// NewHandler returns the GET /api/schedule handler. The full result is
// recomputed from raw inputs on every request.
func NewHandler(c Computer, defaults core.Params) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		params, err := ParseParams(r.URL.Query(), defaults)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := c.Compute(params)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// Package httpapi serves the calculator as JSON over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xtding233/enhance-backend/internal/apperr"
	"github.com/xtding233/enhance-backend/internal/cascade"
	"github.com/xtding233/enhance-backend/internal/catalog"
	"github.com/xtding233/enhance-backend/internal/enhance"
	"github.com/xtding233/enhance-backend/internal/logging"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

type errResp struct {
	Err  string `json:"err"`
	Code string `json:"code,omitempty"`
}

type attemptsResp struct {
	Attempts float64 `json:"attempts"`
}

type familyResp struct {
	Key            string          `json:"key"`
	Name           string          `json:"name"`
	Policy         catalog.Policy  `json:"policy"`
	Ladder         []catalog.Level `json:"ladder"`
	DurabilityLoss int             `json:"durability_loss"`
}

type handler struct {
	calc *cascade.Calculator
	log  *zap.Logger
}

// NewHandler routes every endpoint, /metrics included.
func NewHandler(calc *cascade.Calculator, log *zap.Logger) http.Handler {
	h := &handler{calc: calc, log: logging.OrNop(log)}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chance", h.handleChance)
	mux.HandleFunc("GET /attempts", h.handleAttempts)
	mux.HandleFunc("POST /cascade", h.handleCascade)
	mux.HandleFunc("POST /simulate", h.handleSimulate)
	mux.HandleFunc("GET /failstack", h.handleFailstack)
	mux.HandleFunc("GET /families", h.handleFamilies)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func parseFloat(r *http.Request, key string) (float64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseBool(r *http.Request, key string) (bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return false, ""
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, "invalid " + key
	}
	return v, ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errResp{Err: msg, Code: string(apperr.CodeInvalidArgument)})
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, errResp{Err: err.Error(), Code: string(code)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Wrap(apperr.CodeInvalidArgument, "invalid JSON body: "+err.Error(), err)
	}
	return nil
}

// GET /chance?family=kharazad&level=I&fs=66
func (h *handler) handleChance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	family, level := q.Get("family"), q.Get("level")
	if family == "" || level == "" {
		badRequest(w, "missing param family or level")
		return
	}
	fs, ok, msg := parseInt(r, "fs")
	if msg != "" {
		badRequest(w, msg)
		return
	}
	if !ok {
		fs = enhance.Model{Catalog: h.calc.Catalog()}.RecommendedFS(family, catalog.Level(level))
	}
	quote, err := h.calc.Chance(family, catalog.Level(level), fs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// GET /attempts?base=16.3&fs=0&feedback=true&fixed=false
func (h *handler) handleAttempts(w http.ResponseWriter, r *http.Request) {
	base, ok, msg := parseFloat(r, "base")
	if !ok {
		if msg == "" {
			msg = "missing param base"
		}
		badRequest(w, msg)
		return
	}
	if base <= 0 || base > 100 {
		badRequest(w, "base must be in (0, 100]")
		return
	}
	fs, _, msg := parseInt(r, "fs")
	if msg != "" {
		badRequest(w, msg)
		return
	}
	if fs < 0 {
		badRequest(w, "fs must not be negative")
		return
	}
	feedback, msg := parseBool(r, "feedback")
	if msg != "" {
		badRequest(w, msg)
		return
	}
	fixed, msg := parseBool(r, "fixed")
	if msg != "" {
		badRequest(w, msg)
		return
	}
	writeJSON(w, http.StatusOK, attemptsResp{Attempts: enhance.ExpectedAttempts(base, fs, feedback, fixed)})
}

// POST /cascade with a cascade.Request body
func (h *handler) handleCascade(w http.ResponseWriter, r *http.Request) {
	var req cascade.Request
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.calc.Compute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /simulate with a cascade.SimRequest body
func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req cascade.SimRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.calc.Simulate(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /failstack?target=120&region=EU
func (h *handler) handleFailstack(w http.ResponseWriter, r *http.Request) {
	target, ok, msg := parseInt(r, "target")
	if !ok {
		if msg == "" {
			msg = "missing param target"
		}
		badRequest(w, msg)
		return
	}
	plan, err := h.calc.FailstackCost(r.Context(), catalog.Region(r.URL.Query().Get("region")), target)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// GET /families
func (h *handler) handleFamilies(w http.ResponseWriter, r *http.Request) {
	cat := h.calc.Catalog()
	if cat == nil {
		h.writeError(w, r, apperr.New(apperr.CodeConfigurationMissing, "catalog not loaded"))
		return
	}
	out := make([]familyResp, 0)
	for _, f := range cat.Families() {
		out = append(out, familyResp{Key: f.Key, Name: f.Name, Policy: f.Policy, Ladder: f.Ladder, DurabilityLoss: f.DurabilityLoss})
	}
	writeJSON(w, http.StatusOK, out)
}

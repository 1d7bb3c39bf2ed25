package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appai "github.com/bryanwahyu/twin-verify/internal/application/ai"
	appvals "github.com/bryanwahyu/twin-verify/internal/application/validations"
	domai "github.com/bryanwahyu/twin-verify/internal/domain/ai"
	domain "github.com/bryanwahyu/twin-verify/internal/domain/validations"
	"github.com/bryanwahyu/twin-verify/internal/middleware"
)

type Router struct {
	valsSvc *appvals.Service
	aiSvc   *appai.Service
}

func NewRouter(valsSvc *appvals.Service, aiSvc *appai.Service) http.Handler {
	r := &Router{valsSvc: valsSvc, aiSvc: aiSvc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/webhook/twin-validation", r.wrap(r.handleTriggerValidation))
		rt.Post("/validations/{id}/retry", r.wrap(r.handleRetry))
		rt.Get("/validations/latest", r.wrap(r.handleLatest))
		rt.Get("/validations/{id}", r.wrap(r.handleGet))
		rt.Get("/summary", r.wrap(r.handleSummary))
		rt.Post("/ai/analyze", r.wrap(r.handleAIAnalyze))
		rt.Get("/ai/analyze", r.wrap(r.handleAIAnalyzeList))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// POST /v1/{tenant}/webhook/twin-validation
func (r *Router) handleTriggerValidation(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body struct {
		Check     string `json:"check"`
		ScanFile  string `json:"scan_file"`
		ModelFile string `json:"model_file"`
		Scene     string `json:"scene"`
		Target    string `json:"target"`
		Source    string `json:"source"`
		Operator  string `json:"operator"`
		Metadata  any    `json:"metadata"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if err := middleware.ValidateCheck(body.Check); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	if err := middleware.ValidatePath(body.ScanFile); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	if err := middleware.ValidatePath(body.ModelFile); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	cmd := appvals.TriggerValidationCommand{
		TenantID:  tenant,
		Check:     body.Check,
		ScanFile:  body.ScanFile,
		ModelFile: body.ModelFile,
		Scene:     body.Scene,
		Target:    body.Target,
		Source:    body.Source,
		Operator:  body.Operator,
		Metadata:  body.Metadata,
	}

	// Jalankan di background, biar jalan sampai selesai
	go func() {
		middleware.IncrementValidations()
		middleware.IncrementValidationsRunning()
		defer middleware.DecrementValidationsRunning()

		_ = r.valsSvc.UpdateStatus(cmd.TenantID, "running")

		result, err := r.valsSvc.TriggerValidationUntilDone(cmd)
		if err != nil {
			fmt.Printf("background validation error for tenant=%s check=%s: %v\n",
				tenant, body.Check, err)
			middleware.IncrementValidationsFailed()
			_ = r.valsSvc.UpdateStatus(cmd.TenantID, "error")
			return
		}

		// kalau berhasil → mark done
		_ = r.valsSvc.MarkDone(cmd.TenantID, result)
		fmt.Printf("validation finished: tenant=%s check=%s status=%s report=%s\n",
			tenant, body.Check, result.Status, result.ReportURL)
	}()

	// langsung balikin respons ke client
	resp := map[string]any{
		"status":   "queued",
		"tenant":   tenant,
		"check":    body.Check,
		"scene":    body.Scene,
		"message":  "validation started in background",
		"queuedAt": time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// POST /v1/{tenant}/validations/{id}/retry
func (r *Router) handleRetry(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	result, err := r.valsSvc.RetryValidation(req.Context(), tenant, domain.ValidationID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(result)
}

// GET /v1/{tenant}/validations/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.valsSvc.Latest(req.Context(), tenant, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/validations/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	v, err := r.valsSvc.Get(req.Context(), tenant, domain.ValidationID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// GET /v1/{tenant}/summary?days=7
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))

	summary, err := r.valsSvc.Summary(req.Context(), tenant, middleware.ValidateDays(days))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(summary)
}

// POST /v1/{tenant}/ai/analyze
// Body: {"validation_id": "<id>"}
// The server will fetch the corresponding run's report_url and run AI analysis on it.
func (r *Router) handleAIAnalyze(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	var body struct {
		ValidationID string `json:"validation_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if body.ValidationID == "" {
		return fmt.Errorf("validation_id is required")
	}

	// Lookup run to get report URL
	v, err := r.valsSvc.Get(req.Context(), tenant, domain.ValidationID(body.ValidationID))
	if err != nil {
		return err
	}
	if v == nil || v.ReportURL == "" {
		return fmt.Errorf("report_url not found for validation_id: %s", body.ValidationID)
	}

	a, err := r.aiSvc.AnalyzeAndStore(req.Context(), tenant, body.ValidationID, v.ReportURL)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(a)
}

// GET /v1/{tenant}/ai/analyze?page=&page_size=
func (r *Router) handleAIAnalyzeList(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.aiSvc.ListAnalyses(req.Context(), tenant, page, size)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

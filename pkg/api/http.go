package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/wellmate-ai/wellmate/pkg/common/logger"
	"github.com/wellmate-ai/wellmate/pkg/common/models"
	"github.com/wellmate-ai/wellmate/pkg/feature"
	"github.com/wellmate-ai/wellmate/pkg/model"
	"github.com/wellmate-ai/wellmate/pkg/observability/metrics"
	"github.com/wellmate-ai/wellmate/pkg/pipeline"
	"github.com/wellmate-ai/wellmate/pkg/storage"
)

type Handler struct {
	pipeline *pipeline.Pipeline
}

func NewHandler(p *pipeline.Pipeline) *Handler {
	return &Handler{pipeline: p}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/v1/predict", h.handlePredict).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/results/{user_id}/latest", h.handleLatest).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/results/{user_id}", h.handleRecent).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/state/{user_id}", h.handleState).Methods(http.MethodGet)
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	metrics.PredictionStarted()
	resp, err := h.pipeline.Run(r.Context(), req)
	if err != nil {
		h.writePredictError(w, err)
		return
	}
	metrics.PredictionCompleted()
	if !resp.Persisted {
		metrics.PersistenceFailed()
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id":    resp.UserID,
		"category":   resp.Score.Category,
		"persisted":  resp.Persisted,
		"latency_ms": resp.Latency.Milliseconds(),
	}).Info("Prediction completed")

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writePredictError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pipeline.ErrInFlight):
		metrics.PredictionRejected()
		http.Error(w, err.Error(), http.StatusConflict)
	case feature.IsMissingFieldError(err), feature.IsRangeError(err):
		metrics.PredictionFailed()
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case model.IsDimensionError(err):
		metrics.PredictionFailed()
		logger.Log.WithError(err).Error("model dimension mismatch")
		http.Error(w, "scoring model misconfigured", http.StatusInternalServerError)
	case model.IsInferenceError(err):
		metrics.PredictionFailed()
		logger.Log.WithError(err).Error("inference failed")
		http.Error(w, "scoring temporarily unavailable", http.StatusServiceUnavailable)
	default:
		metrics.PredictionFailed()
		logger.Log.WithError(err).Error("prediction failed")
		http.Error(w, "prediction failed", http.StatusInternalServerError)
	}
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	record, err := h.pipeline.Latest(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "no results for user", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log.WithError(err).Error("failed to read latest result")
		http.Error(w, "failed to read latest result", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"result": record})
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	limit := parseLimit(r, 20)
	records, err := h.pipeline.Recent(r.Context(), userID, limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list results")
		http.Error(w, "failed to list results", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": records})
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	state := h.pipeline.StateFor(userID)
	payload := map[string]interface{}{"state": state.Kind.String()}
	if state.Score != nil {
		payload["score"] = state.Score
	}
	if state.ErrKind != pipeline.ErrKindNone {
		payload["error_kind"] = string(state.ErrKind)
		payload["message"] = state.Message
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

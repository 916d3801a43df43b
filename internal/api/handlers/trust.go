package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/service"
	"github.com/Harshitk-cp/credence/internal/store"
	"github.com/go-chi/chi/v5"
)

type TrustHandler struct {
	svc        *service.TrustService
	trustStore domain.TrustStore
	recompute  *service.RecomputeService
}

func NewTrustHandler(svc *service.TrustService, ts domain.TrustStore, recompute *service.RecomputeService) *TrustHandler {
	return &TrustHandler{svc: svc, trustStore: ts, recompute: recompute}
}

type setTrustRequest struct {
	UserID     string  `json:"user_id"`
	TargetID   string  `json:"target_id"`
	TargetType string  `json:"target_type"`
	TrustValue float64 `json:"trust_value"`
}

// Set records an explicit trust judgment and queues the user for a
// background network recompute.
func (h *TrustHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setTrustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" || req.TargetID == "" {
		writeError(w, http.StatusBadRequest, "user_id and target_id are required")
		return
	}
	if !domain.ValidTargetType(req.TargetType) {
		writeError(w, http.StatusBadRequest, "invalid target_type")
		return
	}
	if req.TrustValue < 0 || req.TrustValue > 1 {
		writeError(w, http.StatusBadRequest, "trust_value must be in [0,1]")
		return
	}

	rel := &domain.TrustRelationship{
		UserID:     req.UserID,
		TargetID:   req.TargetID,
		TargetType: domain.TargetType(req.TargetType),
		TrustValue: req.TrustValue,
		IsExplicit: true,
		Confidence: 1,
	}
	if err := h.trustStore.Upsert(r.Context(), rel); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store trust value")
		return
	}

	h.recompute.MarkDirty(req.UserID)

	writeJSON(w, http.StatusOK, rel)
}

// Unset removes an explicit trust judgment.
func (h *TrustHandler) Unset(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	targetID := r.URL.Query().Get("target")
	if userID == "" || targetID == "" {
		writeError(w, http.StatusBadRequest, "user and target are required")
		return
	}

	if err := h.trustStore.Delete(r.Context(), userID, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "trust relationship not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete trust value")
		return
	}

	h.recompute.MarkDirty(userID)

	w.WriteHeader(http.StatusNoContent)
}

// Get infers the requesting user's trust in one target.
func (h *TrustHandler) Get(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "targetId")
	userID := r.URL.Query().Get("user")
	targetType := r.URL.Query().Get("type")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	if targetType == "" {
		targetType = string(domain.TargetUser)
	}

	result, err := h.svc.InferOne(r.Context(), userID, targetID, domain.TargetType(targetType))
	if err != nil {
		if errors.Is(err, service.ErrUnknownTargetType) {
			writeError(w, http.StatusBadRequest, "invalid target type")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to infer trust")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Explain returns per-contributor detail behind an inferred value.
func (h *TrustHandler) Explain(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "targetId")
	userID := r.URL.Query().Get("user")
	targetType := r.URL.Query().Get("type")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	if targetType == "" {
		targetType = string(domain.TargetUser)
	}

	explanation, err := h.svc.GetTrustExplanation(r.Context(), userID, targetID, domain.TargetType(targetType))
	if err != nil {
		if errors.Is(err, service.ErrUnknownTargetType) {
			writeError(w, http.StatusBadRequest, "invalid target type")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to explain trust")
		return
	}

	writeJSON(w, http.StatusOK, explanation)
}

// RecomputeNetwork synchronously rebuilds one user's trust network.
func (h *TrustHandler) RecomputeNetwork(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	network, err := h.svc.ComputeUserTrustNetwork(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to recompute trust network")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"network": network,
	})
}

// ExplainPropagation serves the legacy path-based propagation for debugging.
// Its numbers are transitive and deliberately separate from inference output.
func (h *TrustHandler) ExplainPropagation(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	results, err := h.svc.ExplainPropagation(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to run propagation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":   userID,
		"algorithm": "legacy-graph-propagation",
		"results":   results,
	})
}

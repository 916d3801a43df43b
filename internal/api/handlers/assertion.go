package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/service"
	"github.com/Harshitk-cp/credence/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AssertionHandler struct {
	svc            *service.TrustService
	assertionStore domain.AssertionStore
}

func NewAssertionHandler(svc *service.TrustService, as domain.AssertionStore) *AssertionHandler {
	return &AssertionHandler{svc: svc, assertionStore: as}
}

type createAssertionRequest struct {
	SourceID   string `json:"source_id"`
	ImportedBy string `json:"imported_by,omitempty"`
	Title      string `json:"title,omitempty"`
}

// Create registers an assertion with its provenance chain. The content
// pipeline calls this when importing; the engine only needs the chain.
func (h *AssertionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssertionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SourceID == "" {
		writeError(w, http.StatusBadRequest, "source_id is required")
		return
	}

	a := &domain.Assertion{
		ID:         uuid.NewString(),
		SourceID:   req.SourceID,
		ImportedBy: req.ImportedBy,
		Title:      req.Title,
	}
	if err := h.assertionStore.Create(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create assertion")
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

// GetTrust returns the provenance breakdown of one assertion's trust for a
// user.
func (h *AssertionHandler) GetTrust(w http.ResponseWriter, r *http.Request) {
	assertionID := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	a, err := h.assertionStore.GetByID(r.Context(), assertionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "assertion not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load assertion")
		return
	}

	breakdown, err := h.svc.ComputeAssertionTrustWithProvenance(r.Context(), userID, *a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute trust")
		return
	}

	writeJSON(w, http.StatusOK, breakdown)
}

type feedRequest struct {
	UserID     string             `json:"user_id"`
	Assertions []domain.Assertion `json:"assertions"`
	Threshold  *float64           `json:"threshold,omitempty"`
}

// Feed filters and ranks a batch of assertions by the user's effective
// trust. With no threshold it only sorts.
func (h *AssertionHandler) Feed(w http.ResponseWriter, r *http.Request) {
	var req feedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	assertions := req.Assertions
	if len(assertions) == 0 {
		limit := 100
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
			limit = v
		}
		listed, err := h.assertionStore.ListNeedingTrust(r.Context(), req.UserID, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list assertions")
			return
		}
		assertions = listed
	}

	var scored []domain.ScoredAssertion
	var err error
	if req.Threshold != nil {
		scored, err = h.svc.FilterByTrust(r.Context(), req.UserID, assertions, *req.Threshold)
	} else {
		scored, err = h.svc.ScoreAssertions(r.Context(), req.UserID, assertions)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to score assertions")
		return
	}

	service.SortScoredAssertions(scored)

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":    req.UserID,
		"assertions": scored,
	})
}

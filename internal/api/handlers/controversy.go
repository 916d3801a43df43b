package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/service"
)

type ControversyHandler struct {
	svc *service.TrustService
}

func NewControversyHandler(svc *service.TrustService) *ControversyHandler {
	return &ControversyHandler{svc: svc}
}

// Get reports population disagreement for entities of one type.
func (h *ControversyHandler) Get(w http.ResponseWriter, r *http.Request) {
	targetType := r.URL.Query().Get("type")
	if targetType == "" {
		targetType = string(domain.TargetAssertion)
	}

	minUsers := 2
	if v, err := strconv.Atoi(r.URL.Query().Get("min_users")); err == nil && v > 0 {
		minUsers = v
	}

	report, err := h.svc.Controversy(r.Context(), domain.TargetType(targetType), minUsers)
	if err != nil {
		if errors.Is(err, service.ErrUnknownTargetType) {
			writeError(w, http.StatusBadRequest, "invalid target type")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to score controversy")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

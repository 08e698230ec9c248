package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"debt-planner/repository"
	"debt-planner/service"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type PlanHandler struct {
	service *service.PayoffService
}

func NewPlanHandler(service *service.PayoffService) *PlanHandler {
	return &PlanHandler{service: service}
}

// GetPlan devuelve un plan almacenado: GET /payoff/plan?id=<uuid>
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id query parameter is required", http.StatusBadRequest)
		return
	}

	plan, err := h.service.GetPlan(id)
	if err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// ListPlans devuelve los planes más recientes: GET /payoff/plans?limit=20
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	plans, err := h.service.ListRecentPlans(limit)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plans)
}

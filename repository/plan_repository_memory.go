package repository

import (
	"sync"
	"time"

	"debt-planner/domain"
)

// PlanRepositoryMemory is an in-memory implementation of PlanRepository.
type PlanRepositoryMemory struct {
	mu    sync.RWMutex
	plans []domain.PayoffPlan
}

// NewPlanRepositoryMemory creates a new in-memory plan repository.
func NewPlanRepositoryMemory() *PlanRepositoryMemory {
	return &PlanRepositoryMemory{
		plans: []domain.PayoffPlan{},
	}
}

// SavePlan stores the plan in memory.
func (r *PlanRepositoryMemory) SavePlan(plan domain.PayoffPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans = append(r.plans, plan)
	return nil
}

// GetPlan returns the stored plan with the given ID.
func (r *PlanRepositoryMemory) GetPlan(id string) (domain.PayoffPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, plan := range r.plans {
		if plan.ID == id {
			return plan, nil
		}
	}
	return domain.PayoffPlan{}, ErrPlanNotFound
}

// ListRecent returns up to limit plans, newest first.
func (r *PlanRepositoryMemory) ListRecent(limit int) ([]domain.PayoffPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.PayoffPlan{}
	for i := len(r.plans) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.plans[i])
	}
	return result, nil
}

// DeleteOlderThan removes plans created before the cutoff.
func (r *PlanRepositoryMemory) DeleteOlderThan(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.plans[:0]
	var removed int64
	for _, plan := range r.plans {
		if plan.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, plan)
	}
	r.plans = kept
	return removed, nil
}

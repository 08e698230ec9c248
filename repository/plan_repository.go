package repository

import (
	"errors"
	"time"

	"debt-planner/domain"
)

// ErrPlanNotFound se devuelve cuando el ID pedido no existe.
var ErrPlanNotFound = errors.New("plan no encontrado")

type PlanRepository interface {
	SavePlan(plan domain.PayoffPlan) error
	GetPlan(id string) (domain.PayoffPlan, error)
	ListRecent(limit int) ([]domain.PayoffPlan, error)
	// DeleteOlderThan elimina los planes creados antes del corte y devuelve
	// cuántos se eliminaron.
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

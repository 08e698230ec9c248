package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanGenerated se emite cada vez que se calcula y persiste un plan de pago.
type PlanGenerated struct {
	PlanID            string          `json:"plan_id"`
	Strategy          string          `json:"strategy"`
	TotalDebt         decimal.Decimal `json:"total_debt"`
	TotalInterestPaid decimal.Decimal `json:"total_interest_paid"`
	MonthsToPayoff    int             `json:"months_to_payoff"`
	DebtFreeDate      time.Time       `json:"debt_free_date"`
	OccurredAt        time.Time       `json:"occurred_at"`
}

type Publisher interface {
	Publish(event PlanGenerated) error
	Close() error
}

package domain

import "time"

// Strategy identifica la política de priorización de pagos.
type Strategy string

const (
	StrategyAvalanche Strategy = "avalanche" // mayor tasa de interés primero
	StrategySnowball  Strategy = "snowball"  // menor saldo primero
	StrategyHybrid    Strategy = "hybrid"    // puntaje combinado tasa+saldo
)

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyAvalanche, StrategySnowball, StrategyHybrid:
		return true
	}
	return false
}

type Debt struct {
	Name           string
	Balance        float64
	InterestRate   float64 // % anual
	MinimumPayment float64
}

type PayoffInput struct {
	Debts        []Debt
	ExtraPayment float64 // presupuesto mensual por encima de los mínimos
	Strategy     Strategy
}

// MonthRecord es una fila del calendario de pagos simulado.
type MonthRecord struct {
	Month            int
	Payment          float64
	RemainingBalance float64
	InterestPaid     float64
	PrincipalPaid    float64
}

type PayoffResult struct {
	Strategy          Strategy
	TotalDebt         float64
	TotalInterestPaid float64
	TotalPaid         float64
	MonthsToPayoff    int
	DebtFreeDate      time.Time
	PayoffOrder       []string
	Schedule          []MonthRecord
	Explanation       string `json:",omitempty"` // Explicación generada por IA
}

// StrategySummary resume una corrida de estrategia para comparación.
type StrategySummary struct {
	Strategy          Strategy
	TotalInterestPaid float64
	TotalPaid         float64
	MonthsToPayoff    int
	DebtFreeDate      time.Time
	PayoffOrder       []string
}

type PayoffComparison struct {
	Best    Strategy
	Results []StrategySummary
	Savings struct {
		InterestSaved float64
		MonthsSaved   int
	}
	Explanation string `json:",omitempty"`
}

// PayoffPlan es un plan calculado y almacenado, recuperable por ID.
type PayoffPlan struct {
	ID        string
	CreatedAt time.Time
	Input     PayoffInput
	Result    PayoffResult
}

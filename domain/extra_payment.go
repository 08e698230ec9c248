package domain

type ExtraPaymentInput struct {
	Debts      []Debt
	Strategy   Strategy
	MinExtra   float64
	MaxExtra   float64
	Step       float64 // 0 = derivado del rango
	Preference string  // "minimize_interest", "minimize_months", "balanced"
}

type ExtraPaymentOption struct {
	ExtraPayment      float64
	MonthsToPayoff    int
	TotalInterestPaid float64
	TotalPaid         float64
	Score             float64
	Reason            string
}

type ExtraPaymentResult struct {
	RecommendedExtra float64
	Options          []ExtraPaymentOption
}

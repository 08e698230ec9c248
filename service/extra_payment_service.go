package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"debt-planner/domain"
)

type ExtraPaymentService struct {
	aiService *AIService
}

func NewExtraPaymentService() *ExtraPaymentService {
	return &ExtraPaymentService{
		aiService: NewAIService(),
	}
}

// RecommendExtraPayment barre montos de pago extra dentro del rango pedido,
// simula el plan completo para cada uno y recomienda el monto óptimo según la
// preferencia del usuario.
func (s *ExtraPaymentService) RecommendExtraPayment(
	input domain.ExtraPaymentInput,
) (domain.ExtraPaymentResult, error) {

	// Validaciones
	if len(input.Debts) == 0 {
		return domain.ExtraPaymentResult{}, errors.New("no se proporcionaron deudas")
	}
	if err := validateDebts(input.Debts); err != nil {
		return domain.ExtraPaymentResult{}, err
	}
	if !input.Strategy.Valid() {
		return domain.ExtraPaymentResult{}, errors.New("estrategia inválida")
	}
	if input.MinExtra < 0 {
		return domain.ExtraPaymentResult{}, errors.New("pago extra mínimo inválido")
	}
	if input.MaxExtra <= 0 {
		return domain.ExtraPaymentResult{}, errors.New("pago extra máximo inválido")
	}
	if input.MinExtra > input.MaxExtra {
		return domain.ExtraPaymentResult{}, errors.New("pago extra mínimo mayor que máximo")
	}
	if input.MaxExtra > MaxExtraPayment {
		return domain.ExtraPaymentResult{}, fmt.Errorf("pago extra excede el máximo de $%.2f", MaxExtraPayment)
	}
	if input.Step < 0 {
		return domain.ExtraPaymentResult{}, errors.New("paso inválido")
	}

	step := input.Step
	if step == 0 {
		step = (input.MaxExtra - input.MinExtra) / 20
	}
	// Validar que el barrido no sea demasiado grande para evitar cálculos costosos
	if step > 0 && (input.MaxExtra-input.MinExtra)/step > MaxExtraSweepSteps {
		return domain.ExtraPaymentResult{}, fmt.Errorf("rango de pagos extra excede el máximo de %d pasos", MaxExtraSweepSteps)
	}

	preferences := map[string]bool{
		"minimize_interest": true,
		"minimize_months":   true,
		"balanced":          true,
	}
	if !preferences[input.Preference] {
		return domain.ExtraPaymentResult{}, errors.New("preferencia inválida")
	}

	// Calcular escenarios para cada monto del rango
	now := time.Now().UTC()
	options := []domain.ExtraPaymentOption{}
	for extra := input.MinExtra; extra <= input.MaxExtra+1e-9; extra += step {
		result := SimulatePayoff(input.Debts, extra, input.Strategy, now)

		// Descartar montos con los que las deudas nunca terminan de pagarse
		if len(result.PayoffOrder) < outstandingCount(input.Debts) {
			continue
		}

		options = append(options, domain.ExtraPaymentOption{
			ExtraPayment:      roundTo2Decimals(extra),
			MonthsToPayoff:    result.MonthsToPayoff,
			TotalInterestPaid: result.TotalInterestPaid,
			TotalPaid:         result.TotalPaid,
		})
		if step == 0 {
			break
		}
	}

	if len(options) == 0 {
		return domain.ExtraPaymentResult{}, errors.New("ningún monto del rango liquida las deudas dentro del plazo máximo")
	}

	s.scoreOptions(options, input.Preference)

	// Ordenar por score descendente
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Score > options[j].Score
	})

	// Generar explicación inteligente con IA para la recomendación principal
	options[0].Reason = s.aiService.GenerateExtraPaymentExplanation(options[0], input.Preference)

	return domain.ExtraPaymentResult{
		RecommendedExtra: options[0].ExtraPayment,
		Options:          options,
	}, nil
}

// scoreOptions normaliza cada métrica a 0-10 dentro del barrido y pondera
// según la preferencia. A mayor score, mejor opción.
func (s *ExtraPaymentService) scoreOptions(options []domain.ExtraPaymentOption, preference string) {
	minInterest, maxInterest := options[0].TotalInterestPaid, options[0].TotalInterestPaid
	minMonths, maxMonths := options[0].MonthsToPayoff, options[0].MonthsToPayoff
	minExtra, maxExtra := options[0].ExtraPayment, options[0].ExtraPayment
	for _, opt := range options[1:] {
		if opt.TotalInterestPaid < minInterest {
			minInterest = opt.TotalInterestPaid
		}
		if opt.TotalInterestPaid > maxInterest {
			maxInterest = opt.TotalInterestPaid
		}
		if opt.MonthsToPayoff < minMonths {
			minMonths = opt.MonthsToPayoff
		}
		if opt.MonthsToPayoff > maxMonths {
			maxMonths = opt.MonthsToPayoff
		}
		if opt.ExtraPayment < minExtra {
			minExtra = opt.ExtraPayment
		}
		if opt.ExtraPayment > maxExtra {
			maxExtra = opt.ExtraPayment
		}
	}

	interestRange := maxInterest - minInterest
	monthsRange := float64(maxMonths - minMonths)
	extraRange := maxExtra - minExtra

	for i := range options {
		interestScore := 0.0
		monthsScore := 0.0
		budgetScore := 0.0

		if interestRange > 0 {
			interestScore = 10.0 * (1.0 - (options[i].TotalInterestPaid-minInterest)/interestRange)
		}
		if monthsRange > 0 {
			monthsScore = 10.0 * (1.0 - float64(options[i].MonthsToPayoff-minMonths)/monthsRange)
		}
		if extraRange > 0 {
			budgetScore = 10.0 * (1.0 - (options[i].ExtraPayment-minExtra)/extraRange)
		}

		var score float64
		switch preference {
		case "minimize_interest":
			score = 0.6*interestScore + 0.2*monthsScore + 0.2*budgetScore
		case "minimize_months":
			score = 0.2*interestScore + 0.6*monthsScore + 0.2*budgetScore
		case "balanced":
			score = 0.4*interestScore + 0.4*monthsScore + 0.2*budgetScore
		}

		options[i].Score = roundTo2Decimals(score)
		options[i].Reason = s.generateReason(preference)
	}
}

func (s *ExtraPaymentService) generateReason(preference string) string {
	switch preference {
	case "minimize_interest":
		return "Monto optimizado para minimizar el costo total de intereses"
	case "minimize_months":
		return "Monto optimizado para salir de deudas lo antes posible"
	case "balanced":
		return "Balance óptimo entre presupuesto mensual y costo total"
	}
	return "Recomendación basada en los parámetros proporcionados"
}

// outstandingCount cuenta las deudas con saldo real por pagar.
func outstandingCount(debts []domain.Debt) int {
	n := 0
	for _, d := range debts {
		if d.Balance > DebtBalanceTolerance {
			n++
		}
	}
	return n
}

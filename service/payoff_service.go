package service

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"debt-planner/domain"
	"debt-planner/events"
	"debt-planner/recorder"
	"debt-planner/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// planCacheTTL limita la vida de un plan en caché. La clave incluye el mes
// calendario, así que la fecha libre de deudas nunca queda desfasada.
const planCacheTTL = 24 * time.Hour

type PayoffService struct {
	repo      repository.PlanRepository
	cache     repository.CacheRepository
	recorder  recorder.Recorder
	publisher events.Publisher
	aiService *AIService
}

func NewPayoffService(
	repo repository.PlanRepository,
	cache repository.CacheRepository,
	rec recorder.Recorder,
	publisher events.Publisher,
) *PayoffService {
	return &PayoffService{
		repo:      repo,
		cache:     cache,
		recorder:  rec,
		publisher: publisher,
		aiService: NewAIService(),
	}
}

// CalculatePayoffPlan simula el plan de pago para la estrategia pedida,
// lo enriquece con una explicación y lo persiste. El guardado, el registro
// histórico y la publicación del evento no son críticos: si fallan, el plan
// calculado se devuelve igual.
func (s *PayoffService) CalculatePayoffPlan(
	input domain.PayoffInput,
) (domain.PayoffPlan, error) {

	if err := validateDebts(input.Debts); err != nil {
		return domain.PayoffPlan{}, err
	}
	if err := validateExtraPayment(input.ExtraPayment); err != nil {
		return domain.PayoffPlan{}, err
	}
	if !input.Strategy.Valid() {
		return domain.PayoffPlan{}, errors.New("estrategia inválida")
	}

	// Mismo portafolio, mismo mes: mismo plan.
	key := planCacheKey(input)
	if cached, ok := s.cache.Get(key); ok {
		var plan domain.PayoffPlan
		if err := json.Unmarshal([]byte(cached), &plan); err == nil {
			return plan, nil
		}
		log.Printf("Warning: discarding corrupt cached plan for key %s", key)
	}

	now := time.Now().UTC()
	result := SimulatePayoff(input.Debts, input.ExtraPayment, input.Strategy, now)
	result.Explanation = s.aiService.GeneratePayoffPlanExplanation(result, input.Debts)

	plan := domain.PayoffPlan{
		ID:        uuid.New().String(),
		CreatedAt: now,
		Input:     input,
		Result:    result,
	}

	// Guardar el plan (no crítico si falla)
	if err := s.repo.SavePlan(plan); err != nil {
		log.Printf("Warning: failed to save payoff plan: %v", err)
	}

	if err := s.recorder.RecordRun(recorder.RunRecord{
		PlanID:            plan.ID,
		Strategy:          string(result.Strategy),
		TotalDebt:         result.TotalDebt,
		TotalInterestPaid: result.TotalInterestPaid,
		TotalPaid:         result.TotalPaid,
		MonthsToPayoff:    result.MonthsToPayoff,
		CreatedAt:         now,
	}); err != nil {
		log.Printf("Warning: failed to record payoff run: %v", err)
	}

	if err := s.publisher.Publish(events.PlanGenerated{
		PlanID:            plan.ID,
		Strategy:          string(result.Strategy),
		TotalDebt:         decimal.NewFromFloat(result.TotalDebt),
		TotalInterestPaid: decimal.NewFromFloat(result.TotalInterestPaid),
		MonthsToPayoff:    result.MonthsToPayoff,
		DebtFreeDate:      result.DebtFreeDate,
		OccurredAt:        now,
	}); err != nil {
		log.Printf("Warning: failed to publish plan event: %v", err)
	}

	if data, err := json.Marshal(plan); err == nil {
		if err := s.cache.Set(key, string(data), planCacheTTL); err != nil {
			log.Printf("Warning: failed to cache payoff plan: %v", err)
		}
	}

	return plan, nil
}

// ComparePayoffStrategies corre las tres estrategias sobre el mismo
// portafolio y las ordena de mejor a peor por interés total pagado.
func (s *PayoffService) ComparePayoffStrategies(
	input domain.PayoffInput,
) (domain.PayoffComparison, error) {

	if err := validateDebts(input.Debts); err != nil {
		return domain.PayoffComparison{}, err
	}
	if err := validateExtraPayment(input.ExtraPayment); err != nil {
		return domain.PayoffComparison{}, err
	}

	now := time.Now().UTC()
	strategies := []domain.Strategy{
		domain.StrategyAvalanche,
		domain.StrategySnowball,
		domain.StrategyHybrid,
	}

	comparison := domain.PayoffComparison{}
	for _, strategy := range strategies {
		result := SimulatePayoff(input.Debts, input.ExtraPayment, strategy, now)
		comparison.Results = append(comparison.Results, domain.StrategySummary{
			Strategy:          strategy,
			TotalInterestPaid: result.TotalInterestPaid,
			TotalPaid:         result.TotalPaid,
			MonthsToPayoff:    result.MonthsToPayoff,
			DebtFreeDate:      result.DebtFreeDate,
			PayoffOrder:       result.PayoffOrder,
		})
	}

	sort.SliceStable(comparison.Results, func(i, j int) bool {
		a, b := comparison.Results[i], comparison.Results[j]
		if a.TotalInterestPaid == b.TotalInterestPaid {
			return a.MonthsToPayoff < b.MonthsToPayoff
		}
		return a.TotalInterestPaid < b.TotalInterestPaid
	})

	best := comparison.Results[0]
	worst := comparison.Results[len(comparison.Results)-1]
	comparison.Best = best.Strategy
	comparison.Savings.InterestSaved = roundTo2Decimals(
		math.Max(0, worst.TotalInterestPaid-best.TotalInterestPaid),
	)
	comparison.Savings.MonthsSaved = worst.MonthsToPayoff - best.MonthsToPayoff

	comparison.Explanation = s.aiService.GenerateComparisonExplanation(comparison)

	return comparison, nil
}

// GetPlan recupera un plan previamente calculado por su ID.
func (s *PayoffService) GetPlan(id string) (domain.PayoffPlan, error) {
	if id == "" {
		return domain.PayoffPlan{}, errors.New("id de plan requerido")
	}
	return s.repo.GetPlan(id)
}

// ListRecentPlans devuelve los planes más recientes, el último primero.
func (s *PayoffService) ListRecentPlans(limit int) ([]domain.PayoffPlan, error) {
	if limit <= 0 {
		return nil, errors.New("límite inválido")
	}
	return s.repo.ListRecent(limit)
}

// validateDebts valida el portafolio completo. Una lista vacía es válida:
// sin deudas, el plan resultante queda en ceros.
func validateDebts(debts []domain.Debt) error {
	if len(debts) > MaxDebtsPerRequest {
		return fmt.Errorf("número de deudas excede el máximo de %d", MaxDebtsPerRequest)
	}

	names := make(map[string]bool)
	for _, debt := range debts {
		if debt.Name == "" {
			return errors.New("nombre de deuda no puede estar vacío")
		}
		if names[debt.Name] {
			return fmt.Errorf("nombre de deuda duplicado: %s", debt.Name)
		}
		names[debt.Name] = true

		if debt.Balance < 0 {
			return fmt.Errorf("saldo inválido para %s", debt.Name)
		}
		if debt.Balance > MaxDebtAmount {
			return fmt.Errorf("saldo de deuda excede el máximo de $%.2f", MaxDebtAmount)
		}
		if debt.InterestRate < 0 {
			return fmt.Errorf("tasa de interés inválida para %s", debt.Name)
		}
		if debt.InterestRate > MaxInterestRate {
			return fmt.Errorf("tasa de interés excede el máximo de %.2f%%", MaxInterestRate)
		}
		if debt.MinimumPayment < 0 {
			return fmt.Errorf("pago mínimo inválido para %s", debt.Name)
		}
	}
	return nil
}

func validateExtraPayment(extra float64) error {
	if extra < 0 {
		return errors.New("pago extra inválido")
	}
	if extra > MaxExtraPayment {
		return fmt.Errorf("pago extra excede el máximo de $%.2f", MaxExtraPayment)
	}
	return nil
}

// planCacheKey deriva una clave estable del portafolio, la estrategia y el
// mes calendario en curso.
func planCacheKey(input domain.PayoffInput) string {
	data, _ := json.Marshal(input)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("payoff:plan:%s:%x", time.Now().UTC().Format("2006-01"), sum[:16])
}

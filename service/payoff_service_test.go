package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"debt-planner/domain"
	"debt-planner/events"
	"debt-planner/recorder"
	"debt-planner/repository"
)

type MockPlanRepository struct {
	SaveCalled bool
	ForceError bool
	Plans      []domain.PayoffPlan
}

func (m *MockPlanRepository) SavePlan(plan domain.PayoffPlan) error {
	m.SaveCalled = true
	if m.ForceError {
		return errors.New("save error")
	}
	m.Plans = append(m.Plans, plan)
	return nil
}

func (m *MockPlanRepository) GetPlan(id string) (domain.PayoffPlan, error) {
	for _, plan := range m.Plans {
		if plan.ID == id {
			return plan, nil
		}
	}
	return domain.PayoffPlan{}, repository.ErrPlanNotFound
}

func (m *MockPlanRepository) ListRecent(limit int) ([]domain.PayoffPlan, error) {
	if limit > len(m.Plans) {
		limit = len(m.Plans)
	}
	return m.Plans[:limit], nil
}

func (m *MockPlanRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	return 0, nil
}

type MockRecorder struct {
	Runs       []recorder.RunRecord
	ForceError bool
}

func (m *MockRecorder) RecordRun(rec recorder.RunRecord) error {
	if m.ForceError {
		return errors.New("record error")
	}
	m.Runs = append(m.Runs, rec)
	return nil
}

func (m *MockRecorder) RecordProgress(rec recorder.ProgressRecord) error { return nil }
func (m *MockRecorder) Close() error                                     { return nil }

type MockPublisher struct {
	Published  []events.PlanGenerated
	ForceError bool
}

func (m *MockPublisher) Publish(event events.PlanGenerated) error {
	if m.ForceError {
		return errors.New("publish error")
	}
	m.Published = append(m.Published, event)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

func newTestPayoffService() (*PayoffService, *MockPlanRepository, *repository.MockCache, *MockRecorder, *MockPublisher) {
	repo := &MockPlanRepository{}
	cache := repository.NewMockCache()
	rec := &MockRecorder{}
	pub := &MockPublisher{}
	return NewPayoffService(repo, cache, rec, pub), repo, cache, rec, pub
}

func validPayoffInput() domain.PayoffInput {
	return domain.PayoffInput{
		Debts: []domain.Debt{
			{Name: "Tarjeta", Balance: 3000, InterestRate: 30, MinimumPayment: 90},
			{Name: "Auto", Balance: 8000, InterestRate: 12, MinimumPayment: 220},
		},
		ExtraPayment: 200,
		Strategy:     domain.StrategyAvalanche,
	}
}

func TestCalculatePayoffPlan_OK(t *testing.T) {

	svc, repo, cache, rec, pub := newTestPayoffService()

	plan, err := svc.CalculatePayoffPlan(validPayoffInput())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.ID == "" {
		t.Error("expected a generated plan ID")
	}
	if plan.Result.MonthsToPayoff <= 0 {
		t.Errorf("expected positive months, got %d", plan.Result.MonthsToPayoff)
	}
	if plan.Result.Explanation == "" {
		t.Error("expected a non-empty explanation")
	}
	if !repo.SaveCalled {
		t.Error("expected repository SavePlan to be called")
	}
	if len(rec.Runs) != 1 {
		t.Errorf("expected 1 recorded run, got %d", len(rec.Runs))
	}
	if len(pub.Published) != 1 {
		t.Errorf("expected 1 published event, got %d", len(pub.Published))
	}
	if len(cache.Data) != 1 {
		t.Errorf("expected plan to be cached, got %d entries", len(cache.Data))
	}
}

func TestCalculatePayoffPlan_ReturnsCachedPlan(t *testing.T) {

	svc, repo, cache, _, _ := newTestPayoffService()
	input := validPayoffInput()

	cached := domain.PayoffPlan{ID: "plan-cacheado"}
	data, _ := json.Marshal(cached)
	cache.Data[planCacheKey(input)] = string(data)

	plan, err := svc.CalculatePayoffPlan(input)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.ID != "plan-cacheado" {
		t.Errorf("expected cached plan, got ID %s", plan.ID)
	}
	if repo.SaveCalled {
		t.Error("repository SavePlan should NOT be called on cache hit")
	}
}

func TestCalculatePayoffPlan_SaveFailureIsNotFatal(t *testing.T) {

	repo := &MockPlanRepository{ForceError: true}
	svc := NewPayoffService(repo, repository.NewMockCache(), &MockRecorder{}, &MockPublisher{})

	plan, err := svc.CalculatePayoffPlan(validPayoffInput())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Result.MonthsToPayoff <= 0 {
		t.Error("expected a computed plan despite save failure")
	}
}

func TestCalculatePayoffPlan_ValidationErrors(t *testing.T) {

	svc, repo, _, _, _ := newTestPayoffService()

	cases := []struct {
		name  string
		input domain.PayoffInput
	}{
		{
			name: "estrategia desconocida",
			input: domain.PayoffInput{
				Debts:    []domain.Debt{{Name: "A", Balance: 100, MinimumPayment: 10}},
				Strategy: "magia",
			},
		},
		{
			name: "nombre vacío",
			input: domain.PayoffInput{
				Debts:    []domain.Debt{{Name: "", Balance: 100, MinimumPayment: 10}},
				Strategy: domain.StrategyAvalanche,
			},
		},
		{
			name: "nombre duplicado",
			input: domain.PayoffInput{
				Debts: []domain.Debt{
					{Name: "A", Balance: 100, MinimumPayment: 10},
					{Name: "A", Balance: 200, MinimumPayment: 20},
				},
				Strategy: domain.StrategyAvalanche,
			},
		},
		{
			name: "saldo negativo",
			input: domain.PayoffInput{
				Debts:    []domain.Debt{{Name: "A", Balance: -5, MinimumPayment: 10}},
				Strategy: domain.StrategyAvalanche,
			},
		},
		{
			name: "tasa negativa",
			input: domain.PayoffInput{
				Debts:    []domain.Debt{{Name: "A", Balance: 100, InterestRate: -1, MinimumPayment: 10}},
				Strategy: domain.StrategyAvalanche,
			},
		},
		{
			name: "mínimo negativo",
			input: domain.PayoffInput{
				Debts:    []domain.Debt{{Name: "A", Balance: 100, MinimumPayment: -10}},
				Strategy: domain.StrategyAvalanche,
			},
		},
		{
			name: "pago extra negativo",
			input: domain.PayoffInput{
				Debts:        []domain.Debt{{Name: "A", Balance: 100, MinimumPayment: 10}},
				ExtraPayment: -50,
				Strategy:     domain.StrategyAvalanche,
			},
		},
	}

	for _, tc := range cases {
		if _, err := svc.CalculatePayoffPlan(tc.input); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}

	if repo.SaveCalled {
		t.Error("repository SavePlan should NOT be called on validation errors")
	}
}

func TestCalculatePayoffPlan_TooManyDebts(t *testing.T) {

	svc, _, _, _, _ := newTestPayoffService()

	debts := make([]domain.Debt, MaxDebtsPerRequest+1)
	for i := range debts {
		debts[i] = domain.Debt{
			Name:           string(rune('A'+i%26)) + string(rune('a'+i/26)),
			Balance:        100,
			MinimumPayment: 10,
		}
	}

	_, err := svc.CalculatePayoffPlan(domain.PayoffInput{
		Debts:    debts,
		Strategy: domain.StrategyAvalanche,
	})

	if err == nil {
		t.Error("expected error for too many debts")
	}
}

func TestCalculatePayoffPlan_NoDebtsGivesZeroPlan(t *testing.T) {

	svc, _, _, _, _ := newTestPayoffService()

	plan, err := svc.CalculatePayoffPlan(domain.PayoffInput{
		Strategy: domain.StrategySnowball,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Result.MonthsToPayoff != 0 || plan.Result.TotalPaid != 0 {
		t.Errorf("expected zero-valued plan, got %+v", plan.Result)
	}
}

func TestComparePayoffStrategies_OK(t *testing.T) {

	svc, _, _, _, _ := newTestPayoffService()

	comparison, err := svc.ComparePayoffStrategies(validPayoffInput())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comparison.Results) != 3 {
		t.Fatalf("expected 3 strategy results, got %d", len(comparison.Results))
	}
	if comparison.Best != comparison.Results[0].Strategy {
		t.Errorf("best %s does not match first result %s",
			comparison.Best, comparison.Results[0].Strategy)
	}
	for i := 1; i < len(comparison.Results); i++ {
		if comparison.Results[i].TotalInterestPaid < comparison.Results[i-1].TotalInterestPaid {
			t.Error("results are not sorted by total interest")
		}
	}
	if comparison.Savings.InterestSaved < 0 {
		t.Errorf("expected non-negative savings, got %.2f", comparison.Savings.InterestSaved)
	}
	if comparison.Explanation == "" {
		t.Error("expected a non-empty explanation")
	}
}

func TestComparePayoffStrategies_InvalidDebts(t *testing.T) {

	svc, _, _, _, _ := newTestPayoffService()

	_, err := svc.ComparePayoffStrategies(domain.PayoffInput{
		Debts: []domain.Debt{{Name: "A", Balance: -1, MinimumPayment: 10}},
	})

	if err == nil {
		t.Error("expected error for invalid debts")
	}
}

func TestGetPlan_RequiresID(t *testing.T) {

	svc, _, _, _, _ := newTestPayoffService()

	if _, err := svc.GetPlan(""); err == nil {
		t.Error("expected error for empty plan ID")
	}
}

func TestGetPlan_NotFound(t *testing.T) {

	svc, _, _, _, _ := newTestPayoffService()

	_, err := svc.GetPlan("no-existe")

	if !errors.Is(err, repository.ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestListRecentPlans_InvalidLimit(t *testing.T) {

	svc, _, _, _, _ := newTestPayoffService()

	if _, err := svc.ListRecentPlans(0); err == nil {
		t.Error("expected error for non-positive limit")
	}
}

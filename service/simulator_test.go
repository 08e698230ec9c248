package service

import (
	"math"
	"testing"
	"time"

	"debt-planner/domain"
)

var testNow = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

func TestSimulatePayoff_SingleDebtZeroInterest(t *testing.T) {

	debts := []domain.Debt{
		{Name: "Tarjeta", Balance: 1200, InterestRate: 0, MinimumPayment: 100},
	}

	result := SimulatePayoff(debts, 0, domain.StrategyAvalanche, testNow)

	if result.MonthsToPayoff != 12 {
		t.Fatalf("expected 12 months, got %d", result.MonthsToPayoff)
	}
	if result.TotalInterestPaid != 0 {
		t.Errorf("expected zero interest, got %.2f", result.TotalInterestPaid)
	}
	if result.TotalPaid != 1200 {
		t.Errorf("expected total paid 1200, got %.2f", result.TotalPaid)
	}
	if len(result.Schedule) != 12 {
		t.Errorf("expected 12 schedule rows, got %d", len(result.Schedule))
	}
	if len(result.PayoffOrder) != 1 || result.PayoffOrder[0] != "Tarjeta" {
		t.Errorf("unexpected payoff order: %v", result.PayoffOrder)
	}
	expectedDate := testNow.AddDate(0, 12, 0)
	if !result.DebtFreeDate.Equal(expectedDate) {
		t.Errorf("expected debt-free date %v, got %v", expectedDate, result.DebtFreeDate)
	}
}

func TestSimulatePayoff_PrincipalCoversExactlyTheBalance(t *testing.T) {

	debts := []domain.Debt{
		{Name: "Préstamo", Balance: 2000, InterestRate: 18, MinimumPayment: 150},
	}

	result := SimulatePayoff(debts, 0, domain.StrategyAvalanche, testNow)

	var totalPrincipal float64
	for _, row := range result.Schedule {
		totalPrincipal += row.PrincipalPaid
	}

	// El capital pagado cubre el saldo inicial, salvo el residuo condonado
	// por la tolerancia de un centavo.
	if diff := math.Abs(totalPrincipal - 2000); diff > 0.011 {
		t.Errorf("expected principal ~2000, got %.4f", totalPrincipal)
	}
	if diff := math.Abs(result.TotalPaid - result.TotalInterestPaid - 2000); diff > 0.02 {
		t.Errorf("expected paid-interest ~2000, got %.4f", result.TotalPaid-result.TotalInterestPaid)
	}
}

func TestSimulatePayoff_OnePaymentPayoff(t *testing.T) {

	debts := []domain.Debt{
		{Name: "Saldo chico", Balance: 50, InterestRate: 12, MinimumPayment: 25},
	}

	result := SimulatePayoff(debts, 1000, domain.StrategySnowball, testNow)

	if result.MonthsToPayoff != 1 {
		t.Fatalf("expected 1 month, got %d", result.MonthsToPayoff)
	}
	if len(result.PayoffOrder) != 1 || result.PayoffOrder[0] != "Saldo chico" {
		t.Errorf("unexpected payoff order: %v", result.PayoffOrder)
	}

	// El pago se recorta a saldo + interés del mes: 50 + 0.50
	row := result.Schedule[0]
	if diff := math.Abs(row.Payment - 50.5); diff > 1e-9 {
		t.Errorf("expected capped payment 50.50, got %.4f", row.Payment)
	}
	if row.RemainingBalance != 0 {
		t.Errorf("expected zero remaining balance, got %.4f", row.RemainingBalance)
	}
}

func TestSimulatePayoff_NoDebts(t *testing.T) {

	result := SimulatePayoff(nil, 200, domain.StrategyAvalanche, testNow)

	if result.MonthsToPayoff != 0 {
		t.Errorf("expected 0 months, got %d", result.MonthsToPayoff)
	}
	if result.TotalDebt != 0 || result.TotalInterestPaid != 0 || result.TotalPaid != 0 {
		t.Errorf("expected zero totals, got %+v", result)
	}
	if result.PayoffOrder == nil || len(result.PayoffOrder) != 0 {
		t.Errorf("expected empty payoff order, got %v", result.PayoffOrder)
	}
	if result.Schedule == nil || len(result.Schedule) != 0 {
		t.Errorf("expected empty schedule, got %d rows", len(result.Schedule))
	}
	if !result.DebtFreeDate.Equal(testNow) {
		t.Errorf("expected debt-free date %v, got %v", testNow, result.DebtFreeDate)
	}
}

func TestSimulatePayoff_FreedMinimumCascades(t *testing.T) {

	// A se salda en el mes 2; su mínimo de 50 se suma al pago de B desde el
	// mes 3. Con tasas en cero el calendario es aritmética exacta.
	debts := []domain.Debt{
		{Name: "A", Balance: 100, InterestRate: 0, MinimumPayment: 50},
		{Name: "B", Balance: 1000, InterestRate: 0, MinimumPayment: 10},
	}

	result := SimulatePayoff(debts, 0, domain.StrategyAvalanche, testNow)

	if result.MonthsToPayoff != 19 {
		t.Fatalf("expected 19 months, got %d", result.MonthsToPayoff)
	}
	if len(result.PayoffOrder) != 2 || result.PayoffOrder[0] != "A" || result.PayoffOrder[1] != "B" {
		t.Errorf("unexpected payoff order: %v", result.PayoffOrder)
	}
	if result.TotalPaid != 1100 {
		t.Errorf("expected total paid 1100, got %.2f", result.TotalPaid)
	}

	// Mes 3: B recibe su mínimo más el mínimo liberado de A.
	if diff := math.Abs(result.Schedule[2].Payment - 60); diff > 1e-9 {
		t.Errorf("expected month 3 payment 60, got %.4f", result.Schedule[2].Payment)
	}
}

func TestSimulatePayoff_SafetyCapWhenPaymentsNeverAmortize(t *testing.T) {

	// El mínimo ni siquiera cubre el interés mensual: la corrida se corta en
	// el límite de seguridad con saldo pendiente.
	debts := []domain.Debt{
		{Name: "Impagable", Balance: 10000, InterestRate: 100, MinimumPayment: 1},
	}

	result := SimulatePayoff(debts, 0, domain.StrategyAvalanche, testNow)

	if result.MonthsToPayoff != MaxDebtPayoffMonths {
		t.Fatalf("expected %d months, got %d", MaxDebtPayoffMonths, result.MonthsToPayoff)
	}
	if len(result.PayoffOrder) != 0 {
		t.Errorf("expected no debts paid off, got %v", result.PayoffOrder)
	}
	last := result.Schedule[len(result.Schedule)-1]
	if last.RemainingBalance <= 0 {
		t.Errorf("expected outstanding balance at cap, got %.2f", last.RemainingBalance)
	}
}

func TestSimulatePayoff_AvalancheNeverPaysMoreInterestThanSnowball(t *testing.T) {

	debts := []domain.Debt{
		{Name: "Tarjeta cara", Balance: 5000, InterestRate: 30, MinimumPayment: 150},
		{Name: "Préstamo barato", Balance: 3000, InterestRate: 5, MinimumPayment: 90},
	}

	avalanche := SimulatePayoff(debts, 200, domain.StrategyAvalanche, testNow)
	snowball := SimulatePayoff(debts, 200, domain.StrategySnowball, testNow)

	if avalanche.TotalInterestPaid > snowball.TotalInterestPaid {
		t.Errorf("avalanche paid more interest (%.2f) than snowball (%.2f)",
			avalanche.TotalInterestPaid, snowball.TotalInterestPaid)
	}
}

func TestSimulatePayoff_MoreExtraNeverWorsensTheResult(t *testing.T) {

	debts := []domain.Debt{
		{Name: "Tarjeta", Balance: 4000, InterestRate: 28, MinimumPayment: 120},
		{Name: "Auto", Balance: 7500, InterestRate: 11, MinimumPayment: 200},
	}

	prevMonths := math.MaxInt32
	prevInterest := math.MaxFloat64
	for _, extra := range []float64{0, 100, 250, 500} {
		result := SimulatePayoff(debts, extra, domain.StrategyAvalanche, testNow)
		if result.MonthsToPayoff > prevMonths {
			t.Errorf("extra %.0f worsened months: %d > %d", extra, result.MonthsToPayoff, prevMonths)
		}
		if result.TotalInterestPaid > prevInterest+1e-9 {
			t.Errorf("extra %.0f worsened interest: %.2f > %.2f", extra, result.TotalInterestPaid, prevInterest)
		}
		prevMonths = result.MonthsToPayoff
		prevInterest = result.TotalInterestPaid
	}
}

func TestSimulatePayoff_ScheduleInvariants(t *testing.T) {

	debts := []domain.Debt{
		{Name: "Tarjeta", Balance: 2500, InterestRate: 35, MinimumPayment: 80},
		{Name: "Personal", Balance: 4000, InterestRate: 15, MinimumPayment: 110},
		{Name: "Auto", Balance: 9000, InterestRate: 9, MinimumPayment: 250},
	}

	result := SimulatePayoff(debts, 300, domain.StrategyHybrid, testNow)

	prevBalance := math.MaxFloat64
	for _, row := range result.Schedule {
		if diff := math.Abs(row.InterestPaid + row.PrincipalPaid - row.Payment); diff > 1e-6 {
			t.Errorf("month %d: interest %.6f + principal %.6f != payment %.6f",
				row.Month, row.InterestPaid, row.PrincipalPaid, row.Payment)
		}
		if row.RemainingBalance > prevBalance+1e-9 {
			t.Errorf("month %d: balance grew from %.6f to %.6f",
				row.Month, prevBalance, row.RemainingBalance)
		}
		prevBalance = row.RemainingBalance
	}

	if result.Schedule[len(result.Schedule)-1].RemainingBalance != 0 {
		t.Errorf("expected final balance 0, got %.6f",
			result.Schedule[len(result.Schedule)-1].RemainingBalance)
	}
}

func TestSimulatePayoff_SnowballOrdersBySmallestBalance(t *testing.T) {

	debts := []domain.Debt{
		{Name: "Mediana", Balance: 500, InterestRate: 10, MinimumPayment: 25},
		{Name: "Chica", Balance: 200, InterestRate: 10, MinimumPayment: 20},
		{Name: "Grande", Balance: 800, InterestRate: 10, MinimumPayment: 30},
	}

	result := SimulatePayoff(debts, 100, domain.StrategySnowball, testNow)

	expected := []string{"Chica", "Mediana", "Grande"}
	for i, name := range expected {
		if result.PayoffOrder[i] != name {
			t.Fatalf("expected payoff order %v, got %v", expected, result.PayoffOrder)
		}
	}
}

func TestSimulatePayoff_AvalancheOrdersByHighestRate(t *testing.T) {

	debts := []domain.Debt{
		{Name: "Baja", Balance: 1000, InterestRate: 10, MinimumPayment: 40},
		{Name: "Alta", Balance: 1200, InterestRate: 35, MinimumPayment: 45},
		{Name: "Media", Balance: 900, InterestRate: 20, MinimumPayment: 35},
	}

	result := SimulatePayoff(debts, 150, domain.StrategyAvalanche, testNow)

	expected := []string{"Alta", "Media", "Baja"}
	for i, name := range expected {
		if result.PayoffOrder[i] != name {
			t.Fatalf("expected payoff order %v, got %v", expected, result.PayoffOrder)
		}
	}
}

func TestSimulatePayoff_HybridPrefersExpensiveSmallDebts(t *testing.T) {

	// A gana en ambos componentes del puntaje: tasa más alta y saldo menor.
	debts := []domain.Debt{
		{Name: "B", Balance: 5000, InterestRate: 5, MinimumPayment: 150},
		{Name: "A", Balance: 500, InterestRate: 40, MinimumPayment: 30},
	}

	result := SimulatePayoff(debts, 100, domain.StrategyHybrid, testNow)

	if result.PayoffOrder[0] != "A" {
		t.Errorf("expected A first, got %v", result.PayoffOrder)
	}
}

func TestSimulatePayoff_HybridKeepsDeclarationOrderOnTies(t *testing.T) {

	debts := []domain.Debt{
		{Name: "X", Balance: 1000, InterestRate: 12, MinimumPayment: 50},
		{Name: "Y", Balance: 1000, InterestRate: 12, MinimumPayment: 50},
		{Name: "Z", Balance: 1000, InterestRate: 12, MinimumPayment: 50},
	}

	result := SimulatePayoff(debts, 200, domain.StrategyHybrid, testNow)

	expected := []string{"X", "Y", "Z"}
	for i, name := range expected {
		if result.PayoffOrder[i] != name {
			t.Fatalf("expected payoff order %v, got %v", expected, result.PayoffOrder)
		}
	}
}

func TestSimulatePayoff_AlreadySettledDebtIsExcluded(t *testing.T) {

	debts := []domain.Debt{
		{Name: "Saldada", Balance: 0.004, InterestRate: 50, MinimumPayment: 100},
		{Name: "Viva", Balance: 300, InterestRate: 0, MinimumPayment: 50},
	}

	result := SimulatePayoff(debts, 0, domain.StrategyAvalanche, testNow)

	if result.MonthsToPayoff != 6 {
		t.Fatalf("expected 6 months, got %d", result.MonthsToPayoff)
	}
	if len(result.PayoffOrder) != 1 || result.PayoffOrder[0] != "Viva" {
		t.Errorf("unexpected payoff order: %v", result.PayoffOrder)
	}
}

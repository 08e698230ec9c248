package service

import (
	"sort"
	"time"

	"debt-planner/domain"
)

// debtState mantiene el estado transitorio de una deuda durante una corrida.
// Se destruye al terminar la simulación.
type debtState struct {
	debt          domain.Debt
	balance       float64
	interestPaid  float64
	principalPaid float64
	payoffMonth   int // 0 hasta que la deuda queda saldada
	priorityScore float64
}

// SimulatePayoff simula el pago de deudas mes a mes bajo la estrategia dada.
// Cada mes, toda deuda pendiente acumula interés y recibe su pago mínimo; la
// deuda de mayor prioridad recibe además el fondo extra completo. Al saldarse
// una deuda, su pago mínimo se suma al fondo extra de los meses siguientes.
//
// La función es pura: no tiene efectos secundarios y es determinista dado
// `now`, que fija la proyección de la fecha libre de deudas. Una lista vacía
// produce un resultado en ceros; una simulación que no converge se corta en
// MaxDebtPayoffMonths y devuelve lo acumulado.
func SimulatePayoff(debts []domain.Debt, extraPayment float64, strategy domain.Strategy, now time.Time) domain.PayoffResult {
	result := domain.PayoffResult{
		Strategy:    strategy,
		PayoffOrder: []string{},
		Schedule:    []domain.MonthRecord{},
	}

	// Copia de trabajo: las deudas de entrada no se modifican. Saldos ya
	// dentro de la tolerancia se consideran saldados y no participan.
	states := make([]*debtState, 0, len(debts))
	for _, d := range debts {
		result.TotalDebt += d.Balance
		if d.Balance <= DebtBalanceTolerance {
			continue
		}
		states = append(states, &debtState{debt: d, balance: d.Balance})
	}

	// La prioridad se calcula una sola vez por corrida; nunca se reordena a
	// mitad de simulación.
	orderByPriority(states, strategy)

	extraPool := extraPayment
	month := 0

	for countOutstanding(states) > 0 && month < MaxDebtPayoffMonths {
		month++

		target := firstOutstanding(states)
		var monthPayment, monthInterest, monthPrincipal float64

		for _, st := range states {
			if st.balance <= 0 {
				continue
			}

			// Interés del mes sobre el saldo inicial.
			accrued := st.balance * (st.debt.InterestRate / 100) / 12
			st.interestPaid += accrued
			result.TotalInterestPaid += accrued

			payment := st.debt.MinimumPayment
			if st == target {
				payment += extraPool
			}

			// El pago no puede exceder saldo + interés del mes.
			maxPayment := st.balance + accrued
			if payment > maxPayment {
				payment = maxPayment
			}

			// El interés se cubre primero; el saldo nunca crece.
			principal := payment - accrued
			if principal < 0 {
				principal = 0
			}
			st.balance -= principal
			st.principalPaid += principal

			monthPayment += payment
			monthInterest += payment - principal
			monthPrincipal += principal

			if st.balance <= DebtBalanceTolerance {
				st.balance = 0
				st.payoffMonth = month
				result.PayoffOrder = append(result.PayoffOrder, st.debt.Name)
				// Cascada: el mínimo liberado engrosa el fondo extra de los
				// meses restantes.
				if countOutstanding(states) > 0 {
					extraPool += st.debt.MinimumPayment
				}
			}
		}

		result.TotalPaid += monthPayment
		result.Schedule = append(result.Schedule, domain.MonthRecord{
			Month:            month,
			Payment:          monthPayment,
			RemainingBalance: totalBalance(states),
			InterestPaid:     monthInterest,
			PrincipalPaid:    monthPrincipal,
		})
	}

	result.MonthsToPayoff = month
	result.DebtFreeDate = now.AddDate(0, month, 0)
	result.TotalDebt = roundTo2Decimals(result.TotalDebt)
	result.TotalInterestPaid = roundTo2Decimals(result.TotalInterestPaid)
	result.TotalPaid = roundTo2Decimals(result.TotalPaid)
	return result
}

// orderByPriority ordena las deudas según la estrategia. Cada variante usa un
// criterio puro por deuda; los empates conservan el orden de llegada.
func orderByPriority(states []*debtState, strategy domain.Strategy) {
	switch strategy {
	case domain.StrategySnowball:
		// Menor saldo primero; a igual saldo, mayor tasa.
		sort.SliceStable(states, func(i, j int) bool {
			if states[i].balance == states[j].balance {
				return states[i].debt.InterestRate > states[j].debt.InterestRate
			}
			return states[i].balance < states[j].balance
		})
	case domain.StrategyHybrid:
		// Puntaje por deuda: mitad tasa normalizada, mitad participación
		// inversa del saldo. Mayor puntaje, mayor prioridad.
		var maxRate, total float64
		for _, st := range states {
			if st.debt.InterestRate > maxRate {
				maxRate = st.debt.InterestRate
			}
			total += st.balance
		}
		for _, st := range states {
			var rateScore, balanceScore float64
			if maxRate > 0 {
				rateScore = st.debt.InterestRate / maxRate
			}
			if total > 0 {
				balanceScore = 1 - st.balance/total
			}
			st.priorityScore = 0.5*rateScore + 0.5*balanceScore
		}
		sort.SliceStable(states, func(i, j int) bool {
			return states[i].priorityScore > states[j].priorityScore
		})
	default:
		// Avalanche: mayor tasa primero; a igual tasa, menor saldo.
		sort.SliceStable(states, func(i, j int) bool {
			if states[i].debt.InterestRate == states[j].debt.InterestRate {
				return states[i].balance < states[j].balance
			}
			return states[i].debt.InterestRate > states[j].debt.InterestRate
		})
	}
}

func firstOutstanding(states []*debtState) *debtState {
	for _, st := range states {
		if st.balance > 0 {
			return st
		}
	}
	return nil
}

func countOutstanding(states []*debtState) int {
	n := 0
	for _, st := range states {
		if st.balance > 0 {
			n++
		}
	}
	return n
}

func totalBalance(states []*debtState) float64 {
	sum := 0.0
	for _, st := range states {
		sum += st.balance
	}
	return sum
}

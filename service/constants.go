package service

import (
	"fmt"
	"os"
)

const (
	MaxLoanAmount        = 1_000_000_000.0 // 1 billón
	MaxInterestRate      = 1000.0          // 1000% anual
	MaxTermMonths        = 600             // 50 años
	MinTermMonths        = 1
	MaxDebtAmount        = 100_000_000.0 // 100 millones
	MaxDebtsPerRequest   = 50            // máximo de deudas por request
	MaxDebtPayoffMonths  = 600           // 50 años máximo para pagar deudas
	DebtBalanceTolerance = 0.01          // tolerancia para considerar deuda pagada
	MaxExtraPayment      = 10_000_000.0  // tope del presupuesto extra mensual

	// Límites del barrido de pagos extra para recomendación
	MaxExtraSweepSteps = 200

	// Tipo de cambio de referencia cuando USD_NIO_RATE no está definido
	DefaultUSDToNIORate = 36.62
)

// GetUSDToNIORate devuelve el tipo de cambio córdoba/dólar usado en las
// explicaciones. Se puede fijar con la variable de entorno USD_NIO_RATE.
func GetUSDToNIORate() float64 {
	if v := os.Getenv("USD_NIO_RATE"); v != "" {
		var rate float64
		if _, err := fmt.Sscanf(v, "%f", &rate); err == nil && rate > 0 {
			return rate
		}
	}
	return DefaultUSDToNIORate
}

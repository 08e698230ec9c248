package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"debt-planner/domain"
)

type AIService struct {
	apiKey     string
	apiURL     string
	enabled    bool
	httpClient *http.Client
}

type OpenAIRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func NewAIService() *AIService {
	apiKey := os.Getenv("OPENAI_API_KEY")
	enabled := apiKey != ""

	return &AIService{
		apiKey:  apiKey,
		apiURL:  "https://api.openai.com/v1/chat/completions",
		enabled: enabled,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GeneratePayoffPlanExplanation genera una explicación inteligente para un plan de pago de deudas
func (s *AIService) GeneratePayoffPlanExplanation(
	result domain.PayoffResult,
	debts []domain.Debt,
) string {
	if !s.enabled {
		return s.generateFallbackPayoffExplanation(result.Strategy, result.TotalInterestPaid, result.MonthsToPayoff)
	}

	// Convertir a córdobas para mostrar ambas monedas
	usdToNIO := GetUSDToNIORate()
	totalDebtNIO := result.TotalDebt * usdToNIO
	totalInterestNIO := result.TotalInterestPaid * usdToNIO

	strategyName, strategyDesc := strategyDisplay(result.Strategy)

	prompt := fmt.Sprintf(`Analiza este plan de salida de deudas para Nicaragua y genera una explicación clara, motivacional y educativa.

ESTRATEGIA: %s
%s

RESUMEN FINANCIERO:
- Total de deuda: $%.2f USD (C$%.2f NIO)
- Total de intereses a pagar: $%.2f USD (C$%.2f NIO)
- Tiempo estimado para pagar todo: %d meses (%.1f años)
- Orden de liquidación de deudas: %s

DEUDAS INCLUIDAS:
%s

INSTRUCCIONES:
1. Explica de manera clara qué es la estrategia %s y cómo funciona.
2. Menciona todos los montos en ambas monedas (USD y NIO).
3. Explica por qué el orden de liquidación es el indicado, considerando el contexto del sistema crediticio nicaragüense (préstamos personales, tarjetas de crédito, hipotecas).
4. Proporciona consejos prácticos y motivacionales para ayudar al usuario a mantenerse comprometido con el plan.
5. Sé específico con los números y tiempos.

Genera una explicación de 4-5 oraciones que sea fácil de entender y que motive al usuario a seguir el plan.`,
		strategyName, strategyDesc,
		result.TotalDebt, totalDebtNIO, result.TotalInterestPaid, totalInterestNIO,
		result.MonthsToPayoff, float64(result.MonthsToPayoff)/12.0,
		strings.Join(result.PayoffOrder, ", "),
		s.formatDebts(debts),
		strategyName)

	explanation, err := s.callLLM(prompt)
	if err != nil {
		log.Printf("Error calling AI service for payoff plan: %v", err)
		return s.generateFallbackPayoffExplanation(result.Strategy, result.TotalInterestPaid, result.MonthsToPayoff)
	}

	return explanation
}

// GenerateComparisonExplanation genera una explicación inteligente para una comparación de estrategias
func (s *AIService) GenerateComparisonExplanation(
	comparison domain.PayoffComparison,
) string {
	bestName, _ := strategyDisplay(comparison.Best)

	if !s.enabled {
		return s.generateFallbackComparisonExplanation(comparison)
	}

	usdToNIO := GetUSDToNIORate()
	var lines strings.Builder
	for _, r := range comparison.Results {
		name, _ := strategyDisplay(r.Strategy)
		lines.WriteString(fmt.Sprintf("- %s: $%.2f USD (C$%.2f NIO) en intereses, %d meses\n",
			name, r.TotalInterestPaid, r.TotalInterestPaid*usdToNIO, r.MonthsToPayoff))
	}

	prompt := fmt.Sprintf(`Analiza esta comparación de estrategias de pago de deudas para Nicaragua y genera una explicación clara y educativa.

COMPARACIÓN DE ESTRATEGIAS:
%s
ESTRATEGIA RECOMENDADA: %s
Ahorro frente a la peor opción: $%.2f USD (C$%.2f NIO) y %d meses menos

INSTRUCCIONES:
1. Explica brevemente cómo funciona cada estrategia comparada.
2. Menciona los montos en ambas monedas (USD y NIO).
3. Explica por qué la estrategia recomendada es la mejor para este portafolio, considerando el contexto del sistema crediticio nicaragüense.
4. Sé específico con los números y tiempos.

Genera una explicación de 4-5 oraciones que sea fácil de entender.`,
		lines.String(), bestName,
		comparison.Savings.InterestSaved, comparison.Savings.InterestSaved*usdToNIO,
		comparison.Savings.MonthsSaved)

	explanation, err := s.callLLM(prompt)
	if err != nil {
		log.Printf("Error calling AI service for strategy comparison: %v", err)
		return s.generateFallbackComparisonExplanation(comparison)
	}

	return explanation
}

// GenerateExtraPaymentExplanation genera una explicación inteligente para una recomendación de pago extra
func (s *AIService) GenerateExtraPaymentExplanation(
	option domain.ExtraPaymentOption,
	preference string,
) string {
	if !s.enabled {
		return s.generateFallbackExtraExplanation(option, preference)
	}

	usdToNIO := GetUSDToNIORate()
	extraNIO := option.ExtraPayment * usdToNIO
	interestNIO := option.TotalInterestPaid * usdToNIO

	preferenceText := map[string]string{
		"minimize_interest": "minimizar el costo total de intereses",
		"minimize_months":   "salir de deudas lo antes posible",
		"balanced":          "balance entre presupuesto mensual y costo total",
	}
	preferenceDesc := preferenceText[preference]
	if preferenceDesc == "" {
		preferenceDesc = preference
	}

	prompt := fmt.Sprintf(`Analiza esta recomendación de pago extra mensual para Nicaragua y genera una explicación clara y educativa.

CONTEXTO:
- Pago extra mensual recomendado: $%.2f USD (C$%.2f NIO)
- Tiempo estimado para pagar todo: %d meses (%.1f años)
- Total de intereses a pagar: $%.2f USD (C$%.2f NIO)
- Preferencia del usuario: %s

INSTRUCCIONES:
1. Explica de manera clara y sencilla por qué este monto extra de $%.2f es la mejor opción según la preferencia del usuario (%s).
2. Menciona específicamente los montos en ambas monedas (USD y NIO).
3. Explica el balance entre el esfuerzo mensual y el ahorro en intereses.
4. Proporciona contexto sobre cómo esto se relaciona con el mercado crediticio nicaragüense (préstamos personales, tarjetas de crédito, hipotecas).
5. Sé motivacional pero realista.

Genera una explicación de 3-4 oraciones que sea fácil de entender para cualquier persona.`,
		option.ExtraPayment, extraNIO,
		option.MonthsToPayoff, float64(option.MonthsToPayoff)/12.0,
		option.TotalInterestPaid, interestNIO,
		preferenceDesc, option.ExtraPayment, preferenceDesc)

	explanation, err := s.callLLM(prompt)
	if err != nil {
		log.Printf("Error calling AI service for extra payment: %v", err)
		return s.generateFallbackExtraExplanation(option, preference)
	}

	return explanation
}

func (s *AIService) callLLM(prompt string) (string, error) {
	reqBody := OpenAIRequest{
		Model: "gpt-4o-mini",
		Messages: []Message{
			{
				Role:    "system",
				Content: "Eres un asesor financiero experto especializado en el mercado crediticio de Nicaragua. Proporcionas explicaciones claras, precisas y motivacionales en español. Conoces profundamente el sistema crediticio nicaragüense, incluyendo préstamos personales, tarjetas de crédito e hipotecas. Siempre presentas los montos tanto en dólares estadounidenses (USD) como en córdobas nicaragüenses (NIO), usando una tasa de cambio aproximada cuando sea necesario. Tus explicaciones son educativas, fáciles de entender y ayudan a los usuarios a tomar decisiones financieras informadas.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var openAIResp OpenAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return "", err
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	return openAIResp.Choices[0].Message.Content, nil
}

func (s *AIService) formatDebts(debts []domain.Debt) string {
	if len(debts) == 0 {
		return ""
	}
	usdToNIO := GetUSDToNIORate()
	var result strings.Builder
	for _, debt := range debts {
		debtNIO := debt.Balance * usdToNIO
		result.WriteString(fmt.Sprintf("- %s: $%.2f USD (C$%.2f NIO) al %.2f%% anual, mínimo $%.2f\n",
			debt.Name, debt.Balance, debtNIO, debt.InterestRate, debt.MinimumPayment))
	}
	return result.String()
}

// strategyDisplay devuelve el nombre y la descripción en español de una estrategia.
func strategyDisplay(strategy domain.Strategy) (string, string) {
	switch strategy {
	case domain.StrategySnowball:
		return "Snowball (Bola de Nieve)",
			"Esta estrategia prioriza pagar primero las deudas más pequeñas, generando motivación psicológica al ver progreso rápido."
	case domain.StrategyHybrid:
		return "Híbrida (Tasa y Saldo)",
			"Esta estrategia combina tasa de interés y tamaño del saldo en un solo puntaje, equilibrando ahorro en intereses con victorias tempranas."
	default:
		return "Avalanche (Avalancha)",
			"Esta estrategia prioriza pagar primero las deudas con mayor tasa de interés, minimizando el costo total de intereses."
	}
}

func (s *AIService) generateFallbackPayoffExplanation(
	strategy domain.Strategy,
	totalInterest float64,
	months int,
) string {
	usdToNIO := GetUSDToNIORate()
	totalInterestNIO := totalInterest * usdToNIO

	strategyName, _ := strategyDisplay(strategy)
	return fmt.Sprintf("Con la estrategia %s, pagarás $%.2f USD (C$%.2f NIO) en intereses y terminarás de pagar todas tus deudas en %d meses (%.1f años). %s Esta estrategia es efectiva para manejar diferentes tipos de crédito en Nicaragua, incluyendo préstamos personales, tarjetas de crédito e hipotecas.",
		strategyName, totalInterest, totalInterestNIO, months, float64(months)/12.0,
		s.getStrategyTip(strategy))
}

func (s *AIService) generateFallbackComparisonExplanation(
	comparison domain.PayoffComparison,
) string {
	usdToNIO := GetUSDToNIORate()
	bestName, _ := strategyDisplay(comparison.Best)
	return fmt.Sprintf("Comparando las tres estrategias sobre tu portafolio, la mejor opción es %s: frente a la peor alternativa ahorras $%.2f USD (C$%.2f NIO) en intereses y %d meses de pagos. %s",
		bestName,
		comparison.Savings.InterestSaved, comparison.Savings.InterestSaved*usdToNIO,
		comparison.Savings.MonthsSaved,
		s.getStrategyTip(comparison.Best))
}

func (s *AIService) generateFallbackExtraExplanation(
	option domain.ExtraPaymentOption,
	preference string,
) string {
	usdToNIO := GetUSDToNIORate()
	extraNIO := option.ExtraPayment * usdToNIO
	interestNIO := option.TotalInterestPaid * usdToNIO

	switch preference {
	case "minimize_interest":
		return fmt.Sprintf("Un pago extra mensual de $%.2f USD (C$%.2f NIO) está optimizado para minimizar el costo total de intereses ($%.2f USD / C$%.2f NIO), saldando todas tus deudas en %d meses. Esta opción es ideal si buscas reducir el costo total de tu deuda en el mercado crediticio nicaragüense.",
			option.ExtraPayment, extraNIO, option.TotalInterestPaid, interestNIO, option.MonthsToPayoff)
	case "minimize_months":
		return fmt.Sprintf("Un pago extra mensual de $%.2f USD (C$%.2f NIO) te permite salir de deudas en %d meses (%.1f años), el menor tiempo dentro de tu presupuesto. Perfecto cuando la prioridad es liberarte de las deudas cuanto antes.",
			option.ExtraPayment, extraNIO, option.MonthsToPayoff, float64(option.MonthsToPayoff)/12.0)
	default:
		return fmt.Sprintf("Un pago extra mensual de $%.2f USD (C$%.2f NIO) ofrece un balance óptimo entre esfuerzo mensual y costo total de intereses ($%.2f USD / C$%.2f NIO), saldando todo en %d meses. Esta recomendación considera tanto tu presupuesto como el costo total de la deuda en el contexto nicaragüense.",
			option.ExtraPayment, extraNIO, option.TotalInterestPaid, interestNIO, option.MonthsToPayoff)
	}
}

func (s *AIService) getStrategyTip(strategy domain.Strategy) string {
	switch strategy {
	case domain.StrategySnowball:
		return "Esta estrategia te ayuda a mantener la motivación al ver progreso rápido pagando deudas pequeñas primero, lo cual es especialmente útil cuando tienes múltiples tarjetas de crédito o préstamos personales en Nicaragua."
	case domain.StrategyHybrid:
		return "Esta estrategia reparte el esfuerzo entre las deudas más caras y las más pequeñas, útil cuando quieres ahorrar en intereses sin renunciar a victorias tempranas que te mantengan motivado."
	}
	return "Esta estrategia minimiza el costo total pagando primero las deudas con mayor interés, ideal para reducir significativamente los intereses acumulados en préstamos y tarjetas de crédito nicaragüenses."
}

package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"debt-planner/domain"

	"github.com/shopspring/decimal"
)

const planSchema = `
CREATE TABLE IF NOT EXISTS payoff_plans (
	id                  TEXT PRIMARY KEY,
	created_at          TIMESTAMPTZ NOT NULL,
	strategy            TEXT NOT NULL,
	total_debt          NUMERIC(18,2) NOT NULL,
	total_interest_paid NUMERIC(18,2) NOT NULL,
	total_paid          NUMERIC(18,2) NOT NULL,
	months_to_payoff    INTEGER NOT NULL,
	debt_free_date      TIMESTAMPTZ NOT NULL,
	input_json          JSONB NOT NULL,
	result_json         JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_payoff_plans_created_at ON payoff_plans (created_at);
`

// PostgresPlanRepository persiste planes en PostgreSQL. Las columnas de
// resumen permiten consultas sin deserializar el plan completo.
type PostgresPlanRepository struct {
	db *sql.DB
}

func NewPostgresPlanRepository(db *sql.DB) (*PostgresPlanRepository, error) {
	if _, err := db.Exec(planSchema); err != nil {
		return nil, fmt.Errorf("creating payoff_plans schema: %w", err)
	}
	return &PostgresPlanRepository{db: db}, nil
}

func (p *PostgresPlanRepository) SavePlan(plan domain.PayoffPlan) error {
	const query = `INSERT INTO payoff_plans
	(id, created_at, strategy, total_debt, total_interest_paid, total_paid, months_to_payoff, debt_free_date, input_json, result_json)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	inputJSON, err := json.Marshal(plan.Input)
	if err != nil {
		return err
	}
	resultJSON, err := json.Marshal(plan.Result)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(query,
		plan.ID,
		plan.CreatedAt,
		string(plan.Result.Strategy),
		decimal.NewFromFloat(plan.Result.TotalDebt),
		decimal.NewFromFloat(plan.Result.TotalInterestPaid),
		decimal.NewFromFloat(plan.Result.TotalPaid),
		plan.Result.MonthsToPayoff,
		plan.Result.DebtFreeDate,
		inputJSON,
		resultJSON,
	)
	return err
}

func (p *PostgresPlanRepository) GetPlan(id string) (domain.PayoffPlan, error) {
	const query = `SELECT id, created_at, input_json, result_json FROM payoff_plans WHERE id = $1`

	var plan domain.PayoffPlan
	var inputJSON, resultJSON []byte

	err := p.db.QueryRow(query, id).Scan(&plan.ID, &plan.CreatedAt, &inputJSON, &resultJSON)
	if err == sql.ErrNoRows {
		return domain.PayoffPlan{}, ErrPlanNotFound
	}
	if err != nil {
		return domain.PayoffPlan{}, err
	}

	if err := json.Unmarshal(inputJSON, &plan.Input); err != nil {
		return domain.PayoffPlan{}, err
	}
	if err := json.Unmarshal(resultJSON, &plan.Result); err != nil {
		return domain.PayoffPlan{}, err
	}
	return plan, nil
}

func (p *PostgresPlanRepository) ListRecent(limit int) ([]domain.PayoffPlan, error) {
	const query = `SELECT id, created_at, input_json, result_json FROM payoff_plans
	ORDER BY created_at DESC LIMIT $1`

	rows, err := p.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.PayoffPlan
	for rows.Next() {
		var plan domain.PayoffPlan
		var inputJSON, resultJSON []byte
		if err := rows.Scan(&plan.ID, &plan.CreatedAt, &inputJSON, &resultJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(inputJSON, &plan.Input); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(resultJSON, &plan.Result); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

func (p *PostgresPlanRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	const query = `DELETE FROM payoff_plans WHERE created_at < $1`

	res, err := p.db.Exec(query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

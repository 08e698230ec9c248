package scheduler

import (
	"fmt"
	"log"
	"time"

	"debt-planner/domain"
	"debt-planner/recorder"
	"debt-planner/repository"

	"github.com/robfig/cron/v3"
)

// progressBatchSize limita cuántos planes revisa cada corrida de snapshots.
const progressBatchSize = 100

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron          *cron.Cron
	Repo          repository.PlanRepository
	Recorder      recorder.Recorder
	RetentionDays int
}

// NewScheduler creates a new Scheduler.
func NewScheduler(repo repository.PlanRepository, rec recorder.Recorder, retentionDays int) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Repo:          repo,
		Recorder:      rec,
		RetentionDays: retentionDays,
	}
}

// RegisterAll registers the retention purge and progress snapshot tasks.
func (s *Scheduler) RegisterAll(purgeCron, progressCron string) error {
	if _, err := s.Cron.AddFunc(purgeCron, s.purgeTask); err != nil {
		return fmt.Errorf("register purge task: %w", err)
	}
	if _, err := s.Cron.AddFunc(progressCron, s.progressTask); err != nil {
		return fmt.Errorf("register progress task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) purgeTask() {
	log.Println("[INFO] running plan retention purge")
	cutoff := time.Now().UTC().AddDate(0, 0, -s.RetentionDays)
	removed, err := s.Repo.DeleteOlderThan(cutoff)
	if err != nil {
		log.Printf("[ERROR] purge plans: %v", err)
		return
	}
	log.Printf("[INFO] purged %d expired plans", removed)
}

// progressTask registra, para cada plan reciente, dónde debería estar hoy el
// saldo según su calendario. Sirve para contrastar lo planificado contra lo
// real cuando el usuario vuelve a consultar.
func (s *Scheduler) progressTask() {
	log.Println("[INFO] running plan progress snapshots")
	plans, err := s.Repo.ListRecent(progressBatchSize)
	if err != nil {
		log.Printf("[ERROR] list plans for progress: %v", err)
		return
	}

	now := time.Now().UTC()
	for _, plan := range plans {
		elapsed := monthsBetween(plan.CreatedAt, now)
		if elapsed <= 0 {
			continue
		}

		monthsLeft := plan.Result.MonthsToPayoff - elapsed
		if monthsLeft < 0 {
			monthsLeft = 0
		}

		if err := s.Recorder.RecordProgress(recorder.ProgressRecord{
			PlanID:            plan.ID,
			MonthsElapsed:     elapsed,
			ExpectedRemaining: expectedRemaining(plan.Result.Schedule, elapsed),
			MonthsLeft:        monthsLeft,
			SnapshotAt:        now,
		}); err != nil {
			log.Printf("[ERROR] record progress for plan %s: %v", plan.ID, err)
		}
	}
}

// monthsBetween cuenta los meses calendario completos transcurridos entre dos
// fechas.
func monthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// expectedRemaining devuelve el saldo que el calendario proyecta tras
// `elapsed` meses de pagos.
func expectedRemaining(schedule []domain.MonthRecord, elapsed int) float64 {
	if elapsed < 1 || elapsed >= len(schedule) {
		return 0
	}
	return schedule[elapsed-1].RemainingBalance
}

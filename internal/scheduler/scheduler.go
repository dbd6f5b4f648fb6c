package scheduler

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"safetrack/internal/config"
	"safetrack/internal/email"
	"safetrack/internal/repository"
	"safetrack/internal/service"
)

// Scheduler handles periodic tasks
type Scheduler struct {
	actionRepo     *repository.ActionRepository
	inspectionRepo *repository.InspectionRepository
	checklistRepo  *repository.ChecklistRepository
	userRepo       *repository.UserRepository
	emailService   *email.Service
	config         *config.SchedulerConfig
	notifyConfig   *config.NotifyConfig
	stopChan       chan bool
}

// NewScheduler creates a new scheduler
func NewScheduler(
	actionRepo *repository.ActionRepository,
	inspectionRepo *repository.InspectionRepository,
	checklistRepo *repository.ChecklistRepository,
	userRepo *repository.UserRepository,
	emailService *email.Service,
	cfg *config.SchedulerConfig,
	notifyCfg *config.NotifyConfig,
) *Scheduler {
	return &Scheduler{
		actionRepo:     actionRepo,
		inspectionRepo: inspectionRepo,
		checklistRepo:  checklistRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		config:         cfg,
		notifyConfig:   notifyCfg,
		stopChan:       make(chan bool),
	}
}

// Start starts all scheduled tasks
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler",
		"overdue_summary_enabled", s.config.EnableOverdueSummary,
		"stale_reminders_enabled", s.config.EnableStaleReminders)

	if s.config.EnableOverdueSummary {
		if err := s.startCronTask(s.config.OverdueActionCron, "overdue_action_summary", s.sendOverdueActionSummaries); err != nil {
			slog.Error("Failed to start overdue action summaries", "error", err)
		}
	}

	if s.config.EnableStaleReminders {
		if err := s.startCronTask(s.config.StaleInspectionCron, "stale_inspection_reminders", s.sendStaleInspectionReminders); err != nil {
			slog.Error("Failed to start stale inspection reminders", "error", err)
		}
	}

	slog.Info("Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	slog.Info("Stopping scheduler")
	close(s.stopChan)
}

// startCronTask parses a cron expression and starts the task
// Supports simple cron format: "minute hour day month weekday"
// Examples: "0 9 * * 1" = Monday 9 AM, "0 8 * * *" = Daily 8 AM, "*/5 * * * *" = Every 5 minutes
func (s *Scheduler) startCronTask(cronExpr, taskName string, task func()) error {
	parts := strings.Fields(cronExpr)
	if len(parts) != 5 {
		return fmt.Errorf("invalid cron expression: %s (expected 5 fields)", cronExpr)
	}

	// Interval notation in the minute field: */5 = every 5 minutes
	if strings.HasPrefix(parts[0], "*/") {
		interval, err := strconv.Atoi(parts[0][2:])
		if err != nil || interval < 1 || interval > 59 {
			return fmt.Errorf("invalid minute interval in cron: %s", parts[0])
		}
		go s.scheduleIntervalTask(time.Duration(interval)*time.Minute, taskName, task)
		return nil
	}

	minute, err := strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid minute in cron: %s", parts[0])
	}

	hour, err := strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return fmt.Errorf("invalid hour in cron: %s", parts[1])
	}

	if parts[4] == "*" {
		go s.scheduleDailyTask(hour, minute, taskName, task)
	} else {
		weekday, err := strconv.Atoi(parts[4])
		if err != nil || weekday < 0 || weekday > 6 {
			return fmt.Errorf("invalid weekday in cron: %s (0-6, 0=Sunday)", parts[4])
		}
		go s.scheduleWeeklyTask(time.Weekday(weekday), hour, minute, taskName, task)
	}

	return nil
}

// scheduleIntervalTask runs a task at regular intervals
func (s *Scheduler) scheduleIntervalTask(interval time.Duration, taskName string, task func()) {
	slog.Info("Starting interval task", "task", taskName, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	slog.Info("Running interval task", "task", taskName)
	task()

	for {
		select {
		case <-ticker.C:
			slog.Info("Running interval task", "task", taskName)
			task()
		case <-s.stopChan:
			return
		}
	}
}

// scheduleDailyTask runs a task daily at a specific time
func (s *Scheduler) scheduleDailyTask(hour, minute int, taskName string, task func()) {
	for {
		now := time.Now()
		next := nextDailyRun(now, hour, minute)

		slog.Info("Next daily task scheduled", "task", taskName, "next_run", next.Format("2006-01-02 15:04:05"))

		select {
		case <-time.After(next.Sub(now)):
			slog.Info("Running daily task", "task", taskName)
			task()
		case <-s.stopChan:
			return
		}
	}
}

// scheduleWeeklyTask runs a task weekly on a specific weekday and time
func (s *Scheduler) scheduleWeeklyTask(weekday time.Weekday, hour, minute int, taskName string, task func()) {
	for {
		now := time.Now()
		next := nextWeekday(now, weekday, hour, minute)

		slog.Info("Next weekly task scheduled", "task", taskName, "next_run", next.Format("2006-01-02 15:04:05"))

		select {
		case <-time.After(next.Sub(now)):
			slog.Info("Running weekly task", "task", taskName)
			task()
		case <-s.stopChan:
			return
		}
	}
}

// nextDailyRun calculates the next daily run time
func nextDailyRun(from time.Time, hour, minute int) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), hour, minute, 0, 0, from.Location())
	if next.Before(from) || next.Equal(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// nextWeekday calculates the next occurrence of a specific weekday and time
func nextWeekday(from time.Time, weekday time.Weekday, hour, minute int) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), hour, minute, 0, 0, from.Location())

	daysUntil := int(weekday - from.Weekday())
	if daysUntil < 0 {
		daysUntil += 7
	}
	next = next.AddDate(0, 0, daysUntil)

	if next.Before(from) || next.Equal(from) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// sendOverdueActionSummaries mails safety managers a summary of corrective
// actions past their target date
func (s *Scheduler) sendOverdueActionSummaries() {
	slog.Info("Sending overdue action summaries")

	overdue, err := s.actionRepo.ListOverdue(time.Now())
	if err != nil {
		slog.Error("Failed to list overdue actions", "error", err)
		return
	}
	if len(overdue) == 0 {
		slog.Info("No overdue corrective actions")
		return
	}

	descriptions := make([]string, 0, len(overdue))
	for _, action := range overdue {
		descriptions = append(descriptions, fmt.Sprintf("%s (due %s, %s)",
			action.Description,
			action.TargetDate.Format("2006-01-02"),
			action.Status,
		))
	}

	managers, err := s.userRepo.ListActiveByRole(s.notifyConfig.AlertRole)
	if err != nil {
		slog.Error("Failed to list summary recipients", "role", s.notifyConfig.AlertRole, "error", err)
		return
	}

	summariesSent := 0
	for _, manager := range managers {
		if err := s.emailService.SendOverdueActionSummary(manager.Email, descriptions); err != nil {
			slog.Error("Failed to send overdue action summary",
				"recipient", manager.Email,
				"error", err,
			)
			continue
		}
		summariesSent++
	}

	slog.Info("Overdue action summaries completed",
		"summaries_sent", summariesSent,
		"overdue_actions", len(overdue),
	)
}

// sendStaleInspectionReminders reminds inspectors about inspections started
// but never submitted
func (s *Scheduler) sendStaleInspectionReminders() {
	slog.Info("Sending stale inspection reminders")

	cutoff := time.Now().Add(-s.config.StaleInspectionMaxAge)
	stale, err := s.inspectionRepo.GetStaleOpen(cutoff)
	if err != nil {
		slog.Error("Failed to list stale inspections", "error", err)
		return
	}
	if len(stale) == 0 {
		slog.Info("No stale inspections")
		return
	}

	remindersSent := 0
	for _, inspection := range stale {
		// Deactivated accounts get no reminders
		inspector, err := s.userRepo.GetByID(inspection.InspectorID)
		if err != nil || inspector == nil || !inspector.IsActive {
			continue
		}

		reference := service.InspectionRef(inspection.ID)
		if err := s.emailService.SendStaleInspectionReminder(inspector.Email, inspection.ChecklistName, reference); err != nil {
			slog.Error("Failed to send stale inspection reminder",
				"inspection_id", inspection.ID,
				"recipient", inspector.Email,
				"error", err,
			)
			continue
		}

		remindersSent++
		slog.Info("Stale inspection reminder sent",
			"inspection_id", inspection.ID,
			"recipient", inspector.Email,
		)
	}

	slog.Info("Stale inspection reminders completed", "reminders_sent", remindersSent)
}

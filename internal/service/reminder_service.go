package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goaldesk/internal/model"
	"goaldesk/internal/notify"
	"goaldesk/internal/repository"
)

// ReminderService persists reminders, dispatches the ones that come due and
// builds the daily digest text.
type ReminderService struct {
	reminderRepo *repository.ReminderRepository
	taskRepo     *repository.TaskRepository
	goalRepo     *repository.GoalRepository
	userRepo     *repository.UserRepository
	notifier     notify.Notifier
	log          *zap.Logger
}

func NewReminderService(
	reminderRepo *repository.ReminderRepository,
	taskRepo *repository.TaskRepository,
	goalRepo *repository.GoalRepository,
	userRepo *repository.UserRepository,
	notifier notify.Notifier,
	log *zap.Logger,
) *ReminderService {
	return &ReminderService{
		reminderRepo: reminderRepo,
		taskRepo:     taskRepo,
		goalRepo:     goalRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		log:          log,
	}
}

// CreateForTask registers a reminder for an existing task. When at is nil the
// reminder fires minutesBefore the task's due time.
func (s *ReminderService) CreateForTask(ctx context.Context, taskID string, at *time.Time, minutesBefore int, channel model.ReminderChannel) (*model.Reminder, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %s not found", taskID)
	}
	if at == nil && task.DueDateTime == nil {
		return nil, fmt.Errorf("task %s has no due time to offset from", taskID)
	}

	reminder := model.NewReminder(uuid.New().String(), taskID, time.Now())
	reminder.ReminderTime = at
	reminder.MinutesBefore = minutesBefore
	if channel != "" {
		reminder.Channel = channel
	}
	if err := s.reminderRepo.Save(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// DispatchDue sends every unsent reminder whose trigger time has passed and
// marks it sent. Reminders are skipped, not consumed, while notifications are
// disabled or the clock is inside the user's quiet hours. A reminder whose
// task has been deleted is dropped. Returns the number delivered.
func (s *ReminderService) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	reminders, err := s.reminderRepo.ListUnsent(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, reminder := range reminders {
		task, err := s.taskRepo.GetByID(ctx, reminder.TaskID)
		if err != nil {
			return sent, err
		}
		if task == nil {
			if err := s.reminderRepo.Delete(ctx, reminder.ID); err != nil {
				return sent, err
			}
			continue
		}

		trigger, ok := reminder.TriggerTime(task.DueDateTime)
		if !ok || trigger.After(now) {
			continue
		}

		user, err := s.userRepo.GetByID(ctx, task.UserID)
		if err != nil {
			return sent, err
		}
		if user != nil && !shouldNotify(user.Preferences, now) {
			continue
		}

		body := reminderBody(task)
		if err := s.notifier.Send(ctx, "Reminder: "+task.Title, body); err != nil {
			s.log.Warn("reminder delivery failed",
				zap.String("reminder_id", reminder.ID), zap.Error(err))
			continue
		}
		if err := s.reminderRepo.MarkSent(ctx, reminder.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// SendDigest builds the daily digest for the user and delivers it. The
// digest ignores quiet hours; its schedule is the user's own choice.
func (s *ReminderService) SendDigest(ctx context.Context, userID string, now time.Time) error {
	text, err := s.DailyDigest(ctx, userID, now)
	if err != nil {
		return err
	}
	return s.notifier.Send(ctx, "Daily digest "+now.Format("2006-01-02"), text)
}

// DailyDigest summarizes open tasks and goal streaks as plain text. Tasks
// appear in gateway order: dated first by due time, undated last.
func (s *ReminderService) DailyDigest(ctx context.Context, userID string, now time.Time) (string, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID, repository.TaskFilter{IncludeCompleted: false})
	if err != nil {
		return "", err
	}

	var overdue, today, rest []model.Task
	for _, task := range tasks {
		if task.Status == model.StatusCancelled {
			continue
		}
		switch {
		case task.DueDateTime != nil && sameCalendarDay(task.DueDateTime.In(now.Location()), now):
			today = append(today, task)
		case task.DueDateTime != nil && task.DueDateTime.Before(now):
			overdue = append(overdue, task)
		default:
			rest = append(rest, task)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Open tasks: %d\n", len(tasks))

	writeSection(&b, "Overdue", overdue, now)
	writeSection(&b, "Today", today, now)
	writeSection(&b, "Later", rest, now)

	count, err := s.goalRepo.CountActive(ctx, userID)
	if err != nil {
		return "", err
	}
	streaks, err := s.goalRepo.SumCurrentStreaks(ctx, userID)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "\nActive goals: %d, combined streak: %d days\n", count, streaks)

	return strings.TrimSpace(b.String()), nil
}

func writeSection(b *strings.Builder, name string, tasks []model.Task, now time.Time) {
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", name)
	for _, task := range tasks {
		b.WriteString("  - " + task.Title)
		if task.DueDateTime != nil {
			fmt.Fprintf(b, " (due %s)", task.DueDateTime.In(now.Location()).Format("2006-01-02 15:04"))
		}
		b.WriteByte('\n')
	}
}

func reminderBody(task *model.Task) string {
	var b strings.Builder
	b.WriteString(task.Title)
	if task.DueDateTime != nil {
		fmt.Fprintf(&b, "\nDue %s", task.DueDateTime.Format("2006-01-02 15:04"))
	}
	if task.Description != "" {
		b.WriteString("\n" + task.Description)
	}
	return b.String()
}

// shouldNotify honors the enabled flag and quiet hours. A window whose start
// is after its end wraps past midnight.
func shouldNotify(prefs model.NotificationPreferences, now time.Time) bool {
	if !prefs.Enabled {
		return false
	}
	if prefs.QuietHoursStart == nil || prefs.QuietHoursEnd == nil {
		return true
	}
	start, end := *prefs.QuietHoursStart, *prefs.QuietHoursEnd
	hour := now.Hour()
	if start <= end {
		if hour >= start && hour < end {
			return false
		}
		return true
	}
	if hour >= start || hour < end {
		return false
	}
	return true
}

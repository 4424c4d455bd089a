package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"goaldesk/internal/config"
	"goaldesk/internal/model"
	"goaldesk/internal/notify"
	"goaldesk/internal/repository"
	"goaldesk/internal/service"
)

const usage = `usage: goaldesk [-config file] <command> [args]

commands:
  task add|list|complete|start|cancel|snooze|remind|next|delete
  goal add|list|archive|delete|streak
  user show|prefs|student
  remind [-once]
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "goaldesk:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg       config.Config
	log       *zap.Logger
	db        *gorm.DB
	tasks     *service.TaskService
	goals     *service.GoalService
	users     *service.UserService
	reminders *service.ReminderService
}

func run(args []string) error {
	fs := flag.NewFlagSet("goaldesk", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the YAML config file")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := repository.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer repository.Close(db)

	userRepo := repository.NewUserRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		return err
	}

	a := &app{
		cfg:   cfg,
		log:   logger,
		db:    db,
		tasks: service.NewTaskService(taskRepo, logger),
		goals: service.NewGoalService(goalRepo, logger),
		users: service.NewUserService(userRepo, logger),
		reminders: service.NewReminderService(
			reminderRepo, taskRepo, goalRepo, userRepo, notifier, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch rest[0] {
	case "task":
		return a.runTask(ctx, rest[1:])
	case "goal":
		return a.runGoal(ctx, rest[1:])
	case "user":
		return a.runUser(ctx, rest[1:])
	case "remind":
		return a.runRemind(ctx, rest[1:])
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func newNotifier(cfg config.Config, logger *zap.Logger) (notify.Notifier, error) {
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		return notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
	}
	return notify.NewLogNotifier(logger), nil
}

func (a *app) defaultUser(ctx context.Context) (*model.User, error) {
	return a.users.GetOrCreateDefault(ctx)
}

func (a *app) runTask(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: goaldesk task add|list|complete|start|cancel|snooze|remind|next|delete")
	}
	switch args[0] {
	case "add":
		return a.taskAdd(ctx, args[1:])
	case "list":
		return a.taskList(ctx, args[1:])
	case "complete", "start", "cancel", "delete", "next":
		return a.taskByID(ctx, args[0], args[1:])
	case "snooze":
		return a.taskSnooze(ctx, args[1:])
	case "remind":
		return a.taskRemind(ctx, args[1:])
	default:
		return fmt.Errorf("unknown task command %q", args[0])
	}
}

func (a *app) taskAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("task add", flag.ContinueOnError)
	title := fs.String("title", "", "task title (required)")
	desc := fs.String("desc", "", "description")
	due := fs.String("due", "", `due time, "2006-01-02" or "2006-01-02 15:04"`)
	duration := fs.Int("duration", 0, "estimated minutes")
	priority := fs.String("priority", string(model.PriorityMedium), "low|medium|high|urgent")
	taskType := fs.String("type", string(model.TypeFree), "free|goal|assignment|exam|study_session")
	goalID := fs.String("goal", "", "linked goal id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := model.ParsePriority(*priority)
	if err != nil {
		return err
	}
	tt, err := model.ParseTaskType(*taskType)
	if err != nil {
		return err
	}
	dueTime, err := parseDue(*due)
	if err != nil {
		return err
	}

	user, err := a.defaultUser(ctx)
	if err != nil {
		return err
	}
	input := service.TaskInput{
		UserID:          user.ID,
		Title:           *title,
		Description:     *desc,
		DueDateTime:     dueTime,
		DurationMinutes: *duration,
		Priority:        p,
		Type:            tt,
	}
	if *goalID != "" {
		input.GoalID = goalID
	}
	task, err := a.tasks.Create(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("created task %s (%s)\n", task.ID, task.Status.DisplayName())
	return nil
}

func (a *app) taskList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("task list", flag.ContinueOnError)
	date := fs.String("date", "", `limit to one day, "2006-01-02"`)
	from := fs.String("from", "", "range start date")
	to := fs.String("to", "", "range end date")
	all := fs.Bool("all", false, "include completed tasks")
	search := fs.String("search", "", "title/description substring")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := repository.TaskFilter{IncludeCompleted: *all, Search: *search}
	if *date != "" {
		d, err := parseDue(*date)
		if err != nil {
			return err
		}
		filter.From, filter.To = d, d
	} else {
		var err error
		if filter.From, err = parseDue(*from); err != nil {
			return err
		}
		if filter.To, err = parseDue(*to); err != nil {
			return err
		}
	}

	user, err := a.defaultUser(ctx)
	if err != nil {
		return err
	}
	tasks, err := a.tasks.List(ctx, user.ID, filter)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("no tasks")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tDUE\tPRIORITY\tPROGRESS\tTITLE")
	for _, t := range tasks {
		due := "-"
		if t.DueDateTime != nil {
			due = t.DueDateTime.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\n",
			t.ID, t.Status.DisplayName(), due, t.Priority, t.ProgressPercent, t.Title)
	}
	return w.Flush()
}

func (a *app) taskByID(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet("task "+cmd, flag.ContinueOnError)
	id := fs.String("id", "", "task id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	switch cmd {
	case "delete":
		if err := a.tasks.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Println("deleted", *id)
		return nil
	case "next":
		next, err := a.tasks.SpawnNextInstance(ctx, *id)
		if err != nil {
			return err
		}
		if next == nil {
			fmt.Println("no further occurrence")
			return nil
		}
		fmt.Printf("created next occurrence %s due %s\n",
			next.ID, next.DueDateTime.Format("2006-01-02 15:04"))
		return nil
	}

	var task *model.Task
	var err error
	switch cmd {
	case "complete":
		task, err = a.tasks.Complete(ctx, *id)
	case "start":
		task, err = a.tasks.SetRunning(ctx, *id)
	case "cancel":
		task, err = a.tasks.Cancel(ctx, *id)
	}
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task %s not found", *id)
	}
	fmt.Printf("%s: %s\n", task.Title, task.Status.DisplayName())
	return nil
}

func (a *app) taskSnooze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("task snooze", flag.ContinueOnError)
	id := fs.String("id", "", "task id (required)")
	until := fs.String("until", "", `new due time, "2006-01-02 15:04" (required)`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || *until == "" {
		return fmt.Errorf("-id and -until are required")
	}
	t, err := parseDue(*until)
	if err != nil {
		return err
	}
	task, err := a.tasks.Snooze(ctx, *id, *t)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task %s not found", *id)
	}
	fmt.Printf("%s snoozed until %s\n", task.Title, t.Format("2006-01-02 15:04"))
	return nil
}

func (a *app) taskRemind(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("task remind", flag.ContinueOnError)
	id := fs.String("id", "", "task id (required)")
	at := fs.String("at", "", `explicit trigger time, "2006-01-02 15:04"`)
	before := fs.Int("before", -1, "minutes before the due time (defaults to the preference)")
	channel := fs.String("channel", "", "push|email|in_app")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	ch := model.ReminderChannel(*channel)
	if *channel != "" && !ch.Valid() {
		return fmt.Errorf("invalid channel %q", *channel)
	}
	atTime, err := parseDue(*at)
	if err != nil {
		return err
	}

	user, err := a.defaultUser(ctx)
	if err != nil {
		return err
	}
	lead := *before
	if lead < 0 {
		lead = user.Preferences.DefaultReminderMinutes
	}

	reminder, err := a.reminders.CreateForTask(ctx, *id, atTime, lead, ch)
	if err != nil {
		return err
	}
	if reminder.ReminderTime != nil {
		fmt.Printf("reminder %s at %s\n", reminder.ID, reminder.ReminderTime.Format("2006-01-02 15:04"))
	} else {
		fmt.Printf("reminder %s, %d min before due\n", reminder.ID, reminder.MinutesBefore)
	}
	return nil
}

func (a *app) runGoal(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: goaldesk goal add|list|archive|delete|streak")
	}
	switch args[0] {
	case "add":
		return a.goalAdd(ctx, args[1:])
	case "list":
		return a.goalList(ctx, args[1:])
	case "archive", "delete":
		return a.goalByID(ctx, args[0], args[1:])
	case "streak":
		return a.goalStreak(ctx, args[1:])
	default:
		return fmt.Errorf("unknown goal command %q", args[0])
	}
}

func (a *app) goalAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("goal add", flag.ContinueOnError)
	title := fs.String("title", "", "goal title (required)")
	desc := fs.String("desc", "", "description")
	category := fs.String("category", string(model.CategoryOther), "health|work|learning|personal|other")
	color := fs.String("color", "", "display color, #RRGGBB")
	frequency := fs.String("frequency", string(model.FrequencyDaily), "daily|weekly|monthly")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := model.ParseGoalCategory(*category)
	if err != nil {
		return err
	}
	freq, err := model.ParseFrequencyType(*frequency)
	if err != nil {
		return err
	}

	user, err := a.defaultUser(ctx)
	if err != nil {
		return err
	}
	goal, err := a.goals.Create(ctx, service.GoalInput{
		UserID:      user.ID,
		Title:       *title,
		Description: *desc,
		Category:    cat,
		ColorHex:    *color,
		Frequency:   freq,
	})
	if err != nil {
		return err
	}
	fmt.Println("created goal", goal.ID)
	return nil
}

func (a *app) goalList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("goal list", flag.ContinueOnError)
	archived := fs.Bool("archived", false, "include archived goals")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.defaultUser(ctx)
	if err != nil {
		return err
	}
	goals, err := a.goals.List(ctx, user.ID, *archived)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Println("no goals")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tFREQUENCY\tSTREAK\tBEST\tTITLE")
	for _, g := range goals {
		title := g.Title
		if g.IsArchived {
			title += " (archived)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			g.ID, g.Category, g.Frequency, g.CurrentStreak, g.LongestStreak, title)
	}
	return w.Flush()
}

func (a *app) goalByID(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet("goal "+cmd, flag.ContinueOnError)
	id := fs.String("id", "", "goal id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	if cmd == "delete" {
		if err := a.goals.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Println("deleted", *id)
		return nil
	}
	goal, err := a.goals.Archive(ctx, *id)
	if err != nil {
		return err
	}
	if goal == nil {
		return fmt.Errorf("goal %s not found", *id)
	}
	fmt.Printf("%s archived\n", goal.Title)
	return nil
}

func (a *app) goalStreak(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("goal streak", flag.ContinueOnError)
	id := fs.String("id", "", "goal id (required)")
	current := fs.Int("current", 0, "current streak")
	longest := fs.Int("longest", -1, "longest streak candidate (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	var longestPtr *int
	if *longest >= 0 {
		longestPtr = longest
	}
	goal, err := a.goals.SetStreak(ctx, *id, *current, longestPtr)
	if err != nil {
		return err
	}
	if goal == nil {
		return fmt.Errorf("goal %s not found", *id)
	}
	fmt.Printf("%s: streak %d, best %d\n", goal.Title, goal.CurrentStreak, goal.LongestStreak)
	return nil
}

func (a *app) runUser(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: goaldesk user show|prefs|student")
	}
	switch args[0] {
	case "show":
		user, err := a.defaultUser(ctx)
		if err != nil {
			return err
		}
		printUser(user)
		return nil
	case "student":
		user, err := a.users.ToggleStudentMode(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("student mode: %t\n", user.IsStudentMode)
		return nil
	case "prefs":
		return a.userPrefs(ctx, args[1:])
	default:
		return fmt.Errorf("unknown user command %q", args[0])
	}
}

func (a *app) userPrefs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user prefs", flag.ContinueOnError)
	enabled := fs.String("enabled", "", "notifications on/off: true|false")
	sound := fs.String("sound", "", `notification sound id ("none" clears)`)
	quietStart := fs.Int("quiet-start", -1, "quiet hours start, 0-23")
	quietEnd := fs.Int("quiet-end", -1, "quiet hours end, 0-23")
	leadMinutes := fs.Int("lead", -1, "default reminder lead time, minutes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var update service.PreferencesUpdate
	switch *enabled {
	case "":
	case "true":
		v := true
		update.Enabled = &v
	case "false":
		v := false
		update.Enabled = &v
	default:
		return fmt.Errorf("-enabled must be true or false")
	}
	if *sound != "" {
		s := *sound
		if s == "none" {
			s = ""
		}
		update.Sound = &s
	}
	if *quietStart >= 0 {
		if *quietStart > 23 {
			return fmt.Errorf("-quiet-start must be 0-23")
		}
		update.QuietHoursStart = quietStart
	}
	if *quietEnd >= 0 {
		if *quietEnd > 23 {
			return fmt.Errorf("-quiet-end must be 0-23")
		}
		update.QuietHoursEnd = quietEnd
	}
	if *leadMinutes >= 0 {
		update.DefaultReminderMinutes = leadMinutes
	}

	user, err := a.users.UpdatePreferences(ctx, update)
	if err != nil {
		return err
	}
	printUser(user)
	return nil
}

func printUser(user *model.User) {
	fmt.Printf("user %s <%s>\n", user.Name, user.Email)
	fmt.Printf("  student mode: %t\n", user.IsStudentMode)
	p := user.Preferences
	fmt.Printf("  notifications: %t, lead %d min\n", p.Enabled, p.DefaultReminderMinutes)
	if p.QuietHoursStart != nil && p.QuietHoursEnd != nil {
		fmt.Printf("  quiet hours: %02d:00-%02d:00\n", *p.QuietHoursStart, *p.QuietHoursEnd)
	}
}

// runRemind runs the reminder daemon: a periodic due-reminder scan plus a
// daily digest. With -once it sends a single digest and exits.
func (a *app) runRemind(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("remind", flag.ContinueOnError)
	once := fs.Bool("once", false, "send one digest and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.defaultUser(ctx)
	if err != nil {
		return err
	}
	if *once {
		return a.reminders.SendDigest(ctx, user.ID, time.Now())
	}

	scheduler := service.NewScheduler(time.Local)
	if _, err := scheduler.ScheduleInterval(a.cfg.ReminderPoll, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := a.reminders.DispatchDue(jobCtx, time.Now()); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Warn("reminder scan failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	if _, err := scheduler.ScheduleDaily(a.cfg.DigestTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := a.reminders.SendDigest(jobCtx, user.ID, time.Now()); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Warn("digest failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	scheduler.Start()
	defer scheduler.Stop()
	a.log.Info("reminder daemon started",
		zap.Duration("poll", a.cfg.ReminderPoll),
		zap.String("digest_time", a.cfg.DigestTime))

	<-ctx.Done()
	a.log.Info("shutdown complete")
	return nil
}

func parseDue(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf(`invalid time %q, expected "2006-01-02" or "2006-01-02 15:04"`, value)
}

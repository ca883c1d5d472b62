package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/telebot.v3"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/app"
	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/notify"
	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/domain/obligation"
	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/infra/config"
	idb "github.com/moag1000/Little-ISMS-Helper-sub008/internal/infra/database"
	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/infra/logger"
	infranotify "github.com/moag1000/Little-ISMS-Helper-sub008/internal/infra/notify"
	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/infra/scheduler"
)

// application bundles the wired services for one command invocation.
type application struct {
	cfg         *config.AppConfig
	db          *sql.DB
	scheduleSvc *app.ScheduleService
	reminderSvc *app.ReminderService
}

func (a *application) Close() {
	a.db.Close()
}

func buildApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logger.Init(cfg)
	log := logger.Get()

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	tenantRepo := idb.NewPostgresTenantRepository(db)
	reviewRepos := []obligation.ReviewRepository{
		idb.NewPostgresRiskRepository(db),
		idb.NewPostgresBCPlanRepository(db),
		idb.NewPostgresProcessingActivityRepository(db),
		idb.NewPostgresPrivacyReviewRepository(db),
	}
	breachRepo := idb.NewPostgresBreachRepository(db)

	sources := make([]app.DeadlineSource, 0, len(reviewRepos)+1)
	for _, repo := range reviewRepos {
		sources = append(sources, app.NewReviewSource(repo))
	}
	sources = append(sources, app.NewBreachSource(breachRepo))

	sender, err := buildSender(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	aggregator := app.NewAggregator(sources, log)
	scheduleSvc := app.NewScheduleService(tenantRepo, reviewRepos, obligation.NewIntervalPolicy(), log)
	reminderSvc := app.NewReminderService(tenantRepo, aggregator, sender, log, cfg.DispatchConcurrency)

	return &application{
		cfg:         cfg,
		db:          db,
		scheduleSvc: scheduleSvc,
		reminderSvc: reminderSvc,
	}, nil
}

func buildSender(cfg *config.AppConfig) (notify.Sender, error) {
	switch cfg.NotifyChannel {
	case config.ChannelTelegram:
		bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
		if err != nil {
			return nil, fmt.Errorf("create telegram bot: %w", err)
		}
		return infranotify.NewTelebotSender(bot, cfg.AlertChatID), nil
	case config.ChannelWebhook:
		return infranotify.NewWebhookSender(cfg.WebhookURL, 0), nil
	default:
		return nil, fmt.Errorf("unknown notify channel: %q", cfg.NotifyChannel)
	}
}

// remindFlags holds the parsed flags for the remind command.
type remindFlags struct {
	tenant          string
	dryRun          bool
	breachesOnly    bool
	statsOnly       bool
	includeUpcoming bool
}

func main() {
	root := &cobra.Command{
		Use:   "ismsreminder",
		Short: "Track compliance obligations and dispatch deadline reminders",
	}

	var scheduleTenant string
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Assign next-due dates to unscheduled obligation records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(scheduleTenant)
		},
	}
	scheduleCmd.Flags().StringVar(&scheduleTenant, "tenant", "", "Tenant ID (omit for all active tenants)")

	var flags remindFlags
	remindCmd := &cobra.Command{
		Use:   "remind",
		Short: "Aggregate overdue obligations and dispatch reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemind(flags)
		},
	}
	f := remindCmd.Flags()
	f.StringVar(&flags.tenant, "tenant", "", "Tenant ID (omit for all active tenants)")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Report intended notifications without sending")
	f.BoolVar(&flags.breachesOnly, "breaches-only", false, "Dispatch only the urgent data-breach set")
	f.BoolVar(&flags.statsOnly, "stats-only", false, "Compute and print statistics, send nothing")
	f.BoolVar(&flags.includeUpcoming, "include-upcoming", false, "Include obligations due within the next 14 days in statistics")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the periodic reminder and scheduling jobs until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(scheduleCmd, remindCmd, serveCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runSchedule(tenantID string) error {
	application, err := buildApplication()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := context.Background()
	now := time.Now()

	var result *app.ScheduleResult
	if tenantID == "" {
		result, err = application.scheduleSvc.ScheduleAll(ctx, now)
	} else {
		result, err = application.scheduleSvc.ScheduleMissing(ctx, tenantID, now)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Scheduled %d record(s), skipped %d with unrecognized severity.\n", result.Scheduled, result.Skipped)
	return nil
}

func runRemind(flags remindFlags) error {
	application, err := buildApplication()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := context.Background()
	now := time.Now()
	mode := app.RunMode{
		DryRun:          flags.dryRun,
		BreachesOnly:    flags.breachesOnly,
		StatsOnly:       flags.statsOnly,
		IncludeUpcoming: flags.includeUpcoming,
	}

	if flags.tenant != "" {
		result, err := application.reminderSvc.Run(ctx, flags.tenant, now, mode)
		if err != nil {
			return err
		}
		fmt.Print(app.BuildStatsReport(result.Stats))
		fmt.Printf("Sent %d, failed %d.\n", result.Sent, result.Failed)
		return nil
	}

	summary, err := application.reminderSvc.RunAll(ctx, now, mode)
	if err != nil {
		return err
	}
	for _, result := range summary.Results {
		fmt.Print(app.BuildStatsReport(result.Stats))
	}
	fmt.Printf("Total: sent %d, failed %d across %d tenant(s).\n", summary.Sent, summary.Failed, len(summary.Results))
	return nil
}

func runServe() error {
	application, err := buildApplication()
	if err != nil {
		return err
	}
	defer application.Close()

	log := logger.Get()
	sched := scheduler.NewReminderScheduler(
		application.reminderSvc,
		application.scheduleSvc,
		log,
		application.cfg.CronSpecBreachSweep,
		application.cfg.CronSpecDailyReminders,
		application.cfg.CronSpecDailySchedule,
	)
	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	sched.Stop()
	log.Info("Shut down gracefully.")
	return nil
}

package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/moag1000/Little-ISMS-Helper-sub008/internal/app"
)

// ReminderScheduler drives the periodic compliance runs: an hourly
// breaches-only sweep, a daily full reminder run and a daily scheduling pass.
// Each job covers all active tenants; tenants are isolated inside the
// services, so one tenant's failure never stops the sweep.
type ReminderScheduler struct {
	cronEngine         *cron.Cron
	reminders          *app.ReminderService
	schedules          *app.ScheduleService
	log                *logrus.Logger
	specBreachSweep    string
	specDailyReminders string
	specDailySchedule  string
}

func NewReminderScheduler(
	reminders *app.ReminderService,
	schedules *app.ScheduleService,
	log *logrus.Logger,
	specBreachSweep string,
	specDailyReminders string,
	specDailySchedule string,
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:         cron.New(cron.WithLocation(time.Local)),
		reminders:          reminders,
		schedules:          schedules,
		log:                log,
		specBreachSweep:    specBreachSweep,
		specDailyReminders: specDailyReminders,
		specDailySchedule:  specDailySchedule,
	}
}

func (s *ReminderScheduler) Start() {
	s.log.Info("Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.specBreachSweep, func() {
		s.log.Info("Cron job triggered: breaches-only sweep.")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		summary, err := s.reminders.RunAll(ctx, time.Now(), app.RunMode{BreachesOnly: true})
		if err != nil {
			s.log.Errorf("Breach sweep failed: %v", err)
			return
		}
		s.log.Infof("Breach sweep complete: %d sent, %d failed.", summary.Sent, summary.Failed)
	})
	if err != nil {
		s.log.Fatalf("Could not add breach sweep cron job: %v", err)
	}

	_, err = s.cronEngine.AddFunc(s.specDailyReminders, func() {
		s.log.Info("Cron job triggered: daily reminder run.")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()
		summary, err := s.reminders.RunAll(ctx, time.Now(), app.RunMode{})
		if err != nil {
			s.log.Errorf("Daily reminder run failed: %v", err)
			return
		}
		s.log.Infof("Daily reminder run complete: %d sent, %d failed.", summary.Sent, summary.Failed)
	})
	if err != nil {
		s.log.Fatalf("Could not add daily reminder cron job: %v", err)
	}

	_, err = s.cronEngine.AddFunc(s.specDailySchedule, func() {
		s.log.Info("Cron job triggered: daily scheduling pass.")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()
		result, err := s.schedules.ScheduleAll(ctx, time.Now())
		if err != nil {
			s.log.Errorf("Daily scheduling pass failed: %v", err)
			return
		}
		s.log.Infof("Daily scheduling pass complete: %d scheduled, %d skipped.", result.Scheduled, result.Skipped)
	})
	if err != nil {
		s.log.Fatalf("Could not add daily scheduling cron job: %v", err)
	}

	s.cronEngine.Start()
	s.log.Info("Reminder scheduler started with jobs.")
}

func (s *ReminderScheduler) Stop() {
	s.log.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.log.Info("Reminder scheduler gracefully stopped.")
}

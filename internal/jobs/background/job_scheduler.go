package background

import (
	"context"
	"log"
	"time"

	"gymstack/internal/repositories"
	"gymstack/internal/services"

	"github.com/go-co-op/gocron/v2"
)

const renewalReminderWindow = 3 * 24 * time.Hour

// JobScheduler runs the periodic maintenance tasks: flipping lapsed
// subscriptions to Expired and mailing renewal reminders.
type JobScheduler struct {
	scheduler       gocron.Scheduler
	subscriptionSvc services.SubscriptionService
	subscriptions   repositories.SubscriptionRepository
	users           repositories.UserRepository
	mailSvc         services.MailService
}

func NewJobScheduler(subscriptionSvc services.SubscriptionService, subscriptions repositories.SubscriptionRepository, users repositories.UserRepository, mailSvc services.MailService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:       scheduler,
		subscriptionSvc: subscriptionSvc,
		subscriptions:   subscriptions,
		users:           users,
		mailSvc:         mailSvc,
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.expireSubscriptions, context.Background()),
		gocron.WithName("subscription-expiry"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create subscription-expiry job: %v", err)
	}

	_, err = js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.sendRenewalReminders, context.Background()),
		gocron.WithName("renewal-reminders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create renewal-reminders job: %v", err)
	}
}

// expireSubscriptions flips Active subscriptions past their end date to
// Expired.
func (js *JobScheduler) expireSubscriptions(ctx context.Context) error {
	expired, err := js.subscriptionSvc.ExpireOverdue(ctx)
	if err != nil {
		log.Printf("Failed to expire overdue subscriptions: %v", err)
		return err
	}
	if expired > 0 {
		log.Printf("Expired %d overdue subscriptions", expired)
	}
	return nil
}

// sendRenewalReminders mails members whose Active subscription ends within
// the reminder window.
func (js *JobScheduler) sendRenewalReminders(ctx context.Context) error {
	expiring, err := js.subscriptions.ListExpiringWithin(ctx, time.Now(), renewalReminderWindow)
	if err != nil {
		log.Printf("Failed to list expiring subscriptions: %v", err)
		return err
	}

	sent := 0
	for _, sub := range expiring {
		member, err := js.users.GetByID(ctx, sub.MemberID)
		if err != nil {
			log.Printf("Failed to load member %s for reminder: %v", sub.MemberID, err)
			continue
		}
		if err := js.mailSvc.SendRenewalReminder(member.Email, member.Name, sub.PlanName, sub.EndDate); err != nil {
			log.Printf("Failed to send renewal reminder to %s: %v", member.Email, err)
			continue
		}
		sent++
	}

	log.Printf("Sent %d renewal reminders (%d subscriptions expiring within %s)", sent, len(expiring), renewalReminderWindow)
	return nil
}

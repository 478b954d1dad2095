package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"jetset/models"
	"jetset/services/booking"

	"github.com/hibiken/asynq"
)

// TypeTourReminder is the asynq task type for pre-tour reminders.
const TypeTourReminder = "reminder:tour"

// NewTourReminderTask builds the asynq task that fires at the given time.
func NewTourReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeTourReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqReminderScheduler queues pre-tour reminders on the reminder queue. It
// implements booking.ReminderScheduler.
type AsynqReminderScheduler struct {
	client *asynq.Client
	lead   time.Duration
}

func NewAsynqReminderScheduler(redisOpt asynq.RedisClientOpt, lead time.Duration) *AsynqReminderScheduler {
	if lead <= 0 {
		lead = 24 * time.Hour
	}
	return &AsynqReminderScheduler{
		client: asynq.NewClient(redisOpt),
		lead:   lead,
	}
}

// ScheduleTourReminder enqueues a reminder at tour start minus the configured
// lead. A tour starting sooner than the lead gets its reminder right away.
func (s *AsynqReminderScheduler) ScheduleTourReminder(b models.Booking) error {
	fireAt := b.Start.Add(-s.lead)
	if !fireAt.After(time.Now()) {
		fireAt = time.Now().Add(time.Minute)
	}

	payload := models.ReminderPayload{
		UserID:    b.UserID,
		BookingID: b.ID,
		Title:     "Your Jetset Dubai tour is coming up",
		Body: fmt.Sprintf("%s for %s on %s. See you at Jetset Desert Camp!",
			b.Activity.Label(), b.CustomerName, booking.FormatDateTime(b.Start)),
		FireDate: fireAt.Format(time.RFC3339),
	}

	task, opts, err := NewTourReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := s.client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder task: %w", err)
	}
	return nil
}

// Close releases the underlying asynq client connection.
func (s *AsynqReminderScheduler) Close() error {
	return s.client.Close()
}

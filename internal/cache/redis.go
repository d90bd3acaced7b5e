package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/fastpace/flightapi/config"
	"github.com/redis/go-redis/v9"
)

// ReminderMarks records which users already got a departure reminder
// on a given day, so repeated sweep runs stay at-most-once per day.
type ReminderMarks struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReminderMarks(cfg config.RedisConfig, ttl time.Duration) *ReminderMarks {
	return &ReminderMarks{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

// Mark returns true when this is the first reminder for the user on
// day. A second call with the same arguments returns false until the
// key expires.
func (m *ReminderMarks) Mark(ctx context.Context, userID int64, day time.Time) (bool, error) {
	return m.client.SetNX(ctx, reminderKey(userID, day), "sent", m.ttl).Result()
}

func (m *ReminderMarks) Close() error {
	return m.client.Close()
}

func reminderKey(userID int64, day time.Time) string {
	return fmt.Sprintf("reminder:user:%d:%s", userID, day.UTC().Format("2006-01-02"))
}

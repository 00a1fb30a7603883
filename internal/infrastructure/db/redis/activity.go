package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linewatch/xray-monitor/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// ActivityTracker records which principals are currently signed in. Each
// record is a Redis hash under session:<principal_id> that expires with the
// session token, so stale entries age out without explicit cleanup.
type ActivityTracker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewActivityTracker creates a tracker whose records expire after ttl
// (normally the session token TTL).
func NewActivityTracker(client *redis.Client, ttl time.Duration) *ActivityTracker {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ActivityTracker{client: client, ttl: ttl}
}

// Track records a fresh login.
func (t *ActivityTracker) Track(ctx context.Context, principalID, email, ip string) error {
	key := sessionKeyPrefix + principalID
	now := time.Now().UTC().Format(time.RFC3339)

	pipe := t.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"email":         email,
		"ip":            ip,
		"login_at":      now,
		"last_activity": now,
	})
	pipe.Expire(ctx, key, t.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("track session: %w", err)
	}
	return nil
}

// Touch bumps last_activity for the principal. A missing record (expired or
// logged out) is not an error.
func (t *ActivityTracker) Touch(ctx context.Context, principalID string) error {
	key := sessionKeyPrefix + principalID
	n, err := t.client.Exists(ctx, key).Result()
	if err != nil || n == 0 {
		return err
	}
	return t.client.HSet(ctx, key, "last_activity", time.Now().UTC().Format(time.RFC3339)).Err()
}

// Clear removes the record on logout.
func (t *ActivityTracker) Clear(ctx context.Context, principalID string) error {
	return t.client.Del(ctx, sessionKeyPrefix+principalID).Err()
}

// List scans all session records.
func (t *ActivityTracker) List(ctx context.Context) ([]domain.ActiveSession, error) {
	var sessions []domain.ActiveSession
	iter := t.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		fields, err := t.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("read session %s: %w", key, err)
		}
		if len(fields) == 0 {
			continue // expired between scan and read
		}
		sessions = append(sessions, domain.ActiveSession{
			PrincipalID:  key[len(sessionKeyPrefix):],
			Email:        fields["email"],
			IPAddress:    fields["ip"],
			LoginAt:      parseRFC3339(fields["login_at"]),
			LastActivity: parseRFC3339(fields["last_activity"]),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return sessions, nil
}

func parseRFC3339(s string) time.Time {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}

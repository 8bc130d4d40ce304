// Package lock keeps two auto-booking passes for the same meeting from running at once.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pershin-daniil/followups/pkg/scheduler"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	keyPrefix  = "followups:booking:"
	defaultTTL = 2 * time.Minute
)

// release deletes the key only while it still holds our token.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	log    *logrus.Entry
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker connects to url and checks the connection.
func NewRedisLocker(ctx context.Context, log *logrus.Logger, url string) (*RedisLocker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("err parsing redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("err connecting to redis: %w", err)
	}
	return &RedisLocker{
		log:    log.WithField("component", "lock"),
		client: client,
		ttl:    defaultTTL,
	}, nil
}

func (l *RedisLocker) Close() error {
	return l.client.Close()
}

func key(meetingID string) string {
	return keyPrefix + meetingID
}

// Acquire takes the lock for meetingID. A lock held by someone else is reported
// as scheduler.ErrBookingInProgress.
func (l *RedisLocker) Acquire(ctx context.Context, meetingID string) (func(ctx context.Context) error, error) {
	k := key(meetingID)
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("err acquiring lock %s: %w", k, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", scheduler.ErrBookingInProgress, k)
	}
	l.log.Debugf("acquired %s", k)
	return func(ctx context.Context) error {
		if err := release.Run(ctx, l.client, []string{k}, token).Err(); err != nil {
			return fmt.Errorf("err releasing lock %s: %w", k, err)
		}
		return nil
	}, nil
}

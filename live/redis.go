package live

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"boardsync/domain"
)

const channelPrefix = "board:"

// Channel returns the pub/sub channel carrying a project's notifications.
func Channel(projectID string) string {
	return channelPrefix + projectID
}

// RedisSource reads notifications from a redis pub/sub channel scoped to one
// project. The message payload is the wire event name, nothing more.
type RedisSource struct {
	Client *redis.Client
	Logger *log.Logger
}

// Subscribe consumes the project channel until ctx is cancelled, reconnecting
// with a short pause when the channel drops.
func (s *RedisSource) Subscribe(ctx context.Context, projectID string, handle func(context.Context, domain.Notification)) {
	logger := s.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	ch := Channel(projectID)
	for {
		sub := s.Client.Subscribe(ctx, ch)
		msgs := sub.Channel()
	recv:
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg, ok := <-msgs:
				if !ok {
					break recv
				}
				n, err := domain.ParseNotification(msg.Payload)
				if err != nil {
					logger.Warnf("ignoring message on %s: %v", ch, err)
					continue
				}
				handle(ctx, n)
			}
		}
		_ = sub.Close()
		if ctx.Err() != nil {
			return
		}
		logger.Errorf("pubsub channel %s closed, reconnecting", ch)
		time.Sleep(time.Second)
	}
}

package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client

const (
	shotEventsChannel = "shot_events"
	lastShotTTL       = 2 * time.Hour
)

func SetRedisClient(r *redis.Client) {
	rdbClient = r
}

// PublishShotEvent publishes a completed shot to the shot_events channel so
// every instance can fan it out to its local viewers.
func PublishShotEvent(ctx context.Context, bay string, payload interface{}) {
	if rdbClient == nil {
		// Single-instance mode: broadcast locally only.
		BayHub.BroadcastToBay(bay, payload)
		return
	}

	envelope := map[string]interface{}{
		"bay":     bay,
		"payload": payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("[WS] Failed to marshal shot event: %v", err)
		return
	}
	if err := rdbClient.Publish(ctx, shotEventsChannel, data).Err(); err != nil {
		log.Printf("[WS] Failed to publish shot event: %v", err)
		// Fall back to local delivery so the bay's own viewers still see it.
		BayHub.BroadcastToBay(bay, payload)
	}

	// Cache the latest shot per bay so viewers joining mid-session can pull
	// something to render immediately.
	if shot, err := json.Marshal(payload); err == nil {
		if err := rdbClient.Set(ctx, lastShotKey(bay), shot, lastShotTTL).Err(); err != nil {
			log.Printf("[WS] Failed to cache last shot for bay %s: %v", bay, err)
		}
	}
}

func lastShotKey(bay string) string {
	return "last_shot:" + bay
}

// LatestShot returns the most recent cached shot payload for a bay, or
// redis.Nil when no shot is cached.
func LatestShot(ctx context.Context, bay string) (json.RawMessage, error) {
	if rdbClient == nil {
		return nil, redis.Nil
	}
	data, err := rdbClient.Get(ctx, lastShotKey(bay)).Bytes()
	if err != nil {
		return nil, err
	}
	return data, nil
}

// StartShotEventSubscriber subscribes to the shot_events channel and
// broadcasts incoming shots to the local bay rooms.
func StartShotEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; shot event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, shotEventsChannel)
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] shot_events subscriber started")
		for msg := range ch {
			var envelope struct {
				Bay     string          `json:"bay"`
				Payload json.RawMessage `json:"payload"`
			}
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				log.Printf("[WS] invalid shot event payload: %v", err)
				continue
			}
			if envelope.Bay == "" {
				log.Printf("[WS] shot event without bay, dropping")
				continue
			}
			BayHub.BroadcastToBay(envelope.Bay, envelope.Payload)
		}
	}()
}

package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// publishJSONToStream appends a JSON-encoded record to a Redis Stream with
// XADD. Consumers tail the stream instead of polling the store.
func publishJSONToStream(ctx context.Context, client *redis.Client, stream string, data interface{}) (string, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(jsonBytes),
			"timestamp": time.Now().Unix(),
		},
	}).Result()
}

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// cachedResponse stores the response for idempotent requests.
type cachedResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
}

// responseWriter wraps gin.ResponseWriter to capture the response body.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency returns middleware that replays the cached response for a
// repeated POST carrying the same Idempotency-Key header. Redis errors are
// treated as a cache miss; the request proceeds normally.
func Idempotency(client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := "idempotency:" + key

		if cached := getCachedResponse(ctx, client, cacheKey); cached != nil {
			c.Data(cached.StatusCode, "application/json", cached.Body)
			c.Abort()
			return
		}

		w := &responseWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		c.Next()

		// Only successful outcomes are worth replaying; a failed request
		// may legitimately succeed on retry.
		if c.Writer.Status() >= http.StatusOK && c.Writer.Status() < http.StatusMultipleChoices {
			storeCachedResponse(ctx, client, cacheKey, &cachedResponse{
				StatusCode: c.Writer.Status(),
				Body:       w.body.Bytes(),
			})
		}
	}
}

func getCachedResponse(ctx context.Context, client *redis.Client, key string) *cachedResponse {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil
	}
	return &cached
}

func storeCachedResponse(ctx context.Context, client *redis.Client, key string, resp *cachedResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	client.Set(ctx, key, data, idempotencyTTL)
}

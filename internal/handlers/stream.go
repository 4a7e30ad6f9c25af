package handlers

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
)

// offerLatest replaces whatever is waiting in ch with v, so a slow client
// only ever sees the newest snapshot. It never blocks the store's listener.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// streamEvents relays updates as server-sent events until the client goes
// away or send returns false.
func streamEvents[T any](ctx context.Context, c *gin.Context, updates chan T, send func(T) bool) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case v := <-updates:
			return send(v)
		}
	})
}

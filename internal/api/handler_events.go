package api

import (
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// watchableTables are the tables clients may subscribe to.
var watchableTables = map[string]bool{
	"rooms":      true,
	"tenants":    true,
	"payments":   true,
	"expenses":   true,
	"complaints": true,
	"settings":   true,
}

// Events handles GET /api/events, a server-sent event stream of change
// hints. Each event carries only the table name; clients refetch.
func (h *Handler) Events(c *gin.Context) {
	requested := strings.Split(c.DefaultQuery("tables", "rooms,tenants,payments,expenses,complaints"), ",")

	ctx := c.Request.Context()
	merged := make(chan string, 16)

	subscribed := 0
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if !watchableTables[name] {
			continue
		}
		ch, cancel := h.hub.Subscribe(name)
		defer cancel()
		subscribed++

		go func(table string, ch <-chan struct{}) {
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-ch:
					if !ok {
						return
					}
					select {
					case merged <- table:
					case <-ctx.Done():
						return
					}
				}
			}
		}(name, ch)
	}
	if subscribed == 0 {
		c.JSON(400, gin.H{"error": "no valid tables requested"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case table := <-merged:
			c.SSEvent("change", table)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		}
	})
}

package http

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/beamshare/relay/internal/core"
)

// peersHandler is the presence feed: a server-sent event stream of membership
// snapshots for the room keyed by the caller's network address. Subscribing
// creates the room if needed, so peers joining later by the same address land
// in the same registry entry.
func peersHandler(reg *core.Registry, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		watcher := core.NewWatcher(uuid.NewString())

		reg.Watch(ip, watcher)
		defer reg.Unwatch(ip, watcher)

		logger.Debug().Str("ip", ip).Str("watcher", watcher.ID).Msg("presence feed subscribed")

		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Stream(func(io.Writer) bool {
			select {
			case names := <-watcher.Updates():
				c.SSEvent("message", names)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})

		logger.Debug().Str("ip", ip).Str("watcher", watcher.ID).Msg("presence feed closed")
	}
}

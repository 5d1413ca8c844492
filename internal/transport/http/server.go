package http

import (
	stdhttp "net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/beamshare/relay/internal/config"
	"github.com/beamshare/relay/internal/core"
)

// NewServer builds the HTTP server: status, websocket upgrade, presence feed.
func NewServer(relay *core.Relay, reg *core.Registry, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	gate := newOriginGate(cfg.AllowedOrigins)

	// The REST endpoints share the upgrade gate's allow-list; the upgrade
	// itself answers 401 from its own check before any protocol interaction.
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOriginFunc = gate.allow
	corsMW := cors.New(corsCfg)

	router.GET("/", corsMW, statusHandler(reg))
	router.GET("/ws", NewWSHandler(relay, gate, cfg, logger))
	router.GET("/local-peers", corsMW, peersHandler(reg, logger))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// StatusResponse is the payload of the status endpoint.
type StatusResponse struct {
	Message string `json:"message"`
	Rooms   int    `json:"rooms"`
	Peers   int    `json:"peers"`
}

func statusHandler(reg *core.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms, peers := reg.Stats()
		c.JSON(stdhttp.StatusOK, StatusResponse{
			Message: "beam relay running",
			Rooms:   rooms,
			Peers:   peers,
		})
	}
}

// LoggerMiddleware logs each HTTP request after it completes.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}

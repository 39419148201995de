package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stackingup/chat-server/internal/auth"
	"github.com/stackingup/chat-server/internal/config"
	"github.com/stackingup/chat-server/internal/core"
	"github.com/stackingup/chat-server/internal/store"
)

// NewServer builds the HTTP server hosting the auth endpoints and the
// websocket chat endpoint.
func NewServer(hub *core.Hub, verifier *auth.Verifier, authService *auth.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	if cfg.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	api := NewAPIHandlers(authService, logger, cfg.Environment == config.EnvProduction)
	router.POST("/auth/register", api.Register)
	router.POST("/auth/login", api.Login)

	// The websocket upgrade hijacks the connection; gin's response writer
	// refuses to hijack once it has written, so /ws lives on the outer mux
	// and gin serves only the plain HTTP routes.
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, verifier, st, logger, cfg.AllowedOrigins, cfg.StoreTimeout))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

package app

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"

	_ "github.com/Nazarious-ucu/weather-updates/docs"
	"github.com/Nazarious-ucu/weather-updates/internal/handlers/page"
	"github.com/Nazarious-ucu/weather-updates/internal/handlers/subscription"
	"github.com/Nazarious-ucu/weather-updates/internal/handlers/weather"
	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/middleware"
)

type Handlers struct {
	Subscription *subscription.Handler
	Weather      *weather.Handler
	Health       gin.HandlerFunc
}

type RouterConfig struct {
	TemplatesDir string
	RateLimiter  *middleware.IPRateLimiter
}

// NewRouter mounts the public API, the subscribe page and the operational endpoints.
func NewRouter(h Handlers, cfg RouterConfig, logger zerolog.Logger, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(logger), middleware.AccessLog(), m.HTTPMiddleware())
	router.LoadHTMLFiles(filepath.Join(cfg.TemplatesDir, page.SubscribeTemplate))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	api := router.Group("/api")
	{
		api.GET("/weather", h.Weather.GetWeather)

		subscribe := []gin.HandlerFunc{h.Subscription.Subscribe}
		if cfg.RateLimiter != nil {
			subscribe = append([]gin.HandlerFunc{cfg.RateLimiter.Handler()}, subscribe...)
		}
		api.POST("/subscribe", subscribe...)

		api.GET("/confirm/:token", h.Subscription.Confirm)
		api.GET("/confirm/", h.Subscription.Confirm)
		api.GET("/unsubscribe/:token", h.Subscription.Unsubscribe)
		api.GET("/unsubscribe/", h.Subscription.Unsubscribe)
	}

	router.GET("/subscribe-web", page.Subscribe)
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))

	return router
}

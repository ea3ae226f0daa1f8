// internal/router/router.go
package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/ciaranmckenna/medical-event-tracker-sub001/internal/handlers"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
}

// Setup builds the HTTP surface: the analytics API, a health probe, and the
// prometheus scrape endpoint. Authentication happens upstream; these routes
// expect already-authorized patient identifiers.
func Setup(log *zap.Logger, analyticsHandler *handlers.AnalyticsHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 120,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api", limiter)
	{
		patients := api.Group("/patients/:id")
		{
			patients.GET("/dashboard", analyticsHandler.Dashboard)
			patients.GET("/timeline", analyticsHandler.Timeline)
			patients.GET("/correlations", analyticsHandler.CorrelationBatch)

			medications := patients.Group("/medications/:medID")
			{
				medications.GET("/correlation", analyticsHandler.Correlation)
				medications.GET("/impact", analyticsHandler.Impact)
			}
		}
	}

	return router
}

package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SameetPathan/cowfarm/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(records *handlers.RecordsHandler, reports *handlers.ReportsHandler, chat *handlers.ChatHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.POST("/cows", records.CreateCow)
		api.PUT("/cows/:cowId/health/:date", records.SaveHealthReport)
		api.PUT("/cows/:cowId/milk/:date", records.SaveMilkRecord)
		api.PUT("/expenses/:date", records.SaveExpense)

		api.GET("/dashboard", reports.Dashboard)
		api.GET("/reports/income", reports.MonthlyIncome)
		api.GET("/reports/export", reports.Export)

		api.POST("/chat", chat.Chat)
		api.POST("/chat/reset", chat.Reset)
		api.POST("/analysis", chat.Analyze)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

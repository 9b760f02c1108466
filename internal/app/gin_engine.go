package app

import (
	"coursepay/pkg/logger"
	"coursepay/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func NewGinEngine(l *logger.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(metrics.GinMiddleware(), logger.CorrelationMiddleware(), l.GinBodyLogger(), gin.Recovery())
	return engine
}

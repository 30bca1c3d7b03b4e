package api

import (
	"time"

	"github.com/gin-gonic/gin"
)

// handleHealthCheck 健康检查
func (s *Server) handleHealthCheck(c *gin.Context) {
	ok(c, "", HealthResponse{
		Status:    "healthy",
		Version:   s.version,
		Timestamp: time.Now(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Playing:   s.editor.IsPlaying(),
		Clients:   s.hub.ClientCount(),
	})
}

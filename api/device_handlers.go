package api

import (
	"github.com/gin-gonic/gin"
)

// handleConnect 连接 LED 点阵设备
func (s *Server) handleConnect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的连接请求：", err)
		return
	}

	if err := s.editor.Connect(c.Request.Context(), req.Address); err != nil {
		fail(c, err)
		return
	}
	ok(c, "设备已连接", s.editor.DeviceStatus())
}

// handlePush 推送当前动画到设备，未连接时不发送
func (s *Server) handlePush(c *gin.Context) {
	sent, err := s.editor.Push(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	message := "设备未连接，未发送"
	if sent {
		message = "动画已发送到设备"
	}
	ok(c, message, PushResponse{Sent: sent, Device: s.editor.DeviceStatus()})
}

// handleDeviceStatus 获取设备状态
func (s *Server) handleDeviceStatus(c *gin.Context) {
	ok(c, "", s.editor.DeviceStatus())
}

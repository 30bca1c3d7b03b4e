package api

import (
	"github.com/gin-gonic/gin"
)

// handleGetState 获取完整编辑器状态
func (s *Server) handleGetState(c *gin.Context) {
	ok(c, "", s.editor.State())
}

// handleSetGridSize 修改网格尺寸
func (s *Server) handleSetGridSize(c *gin.Context) {
	var req GridSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的网格尺寸请求：", err)
		return
	}

	if err := s.editor.SetGridSize(req.GridSize); err != nil {
		fail(c, err)
		return
	}
	ok(c, "网格尺寸已修改", s.editor.State())
}

// handleSetSpeed 修改播放速度
func (s *Server) handleSetSpeed(c *gin.Context) {
	var req SpeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的速度请求：", err)
		return
	}

	if err := s.editor.SetSpeed(req.Speed); err != nil {
		fail(c, err)
		return
	}
	ok(c, "播放速度已修改", s.editor.State())
}

// handleSetTool 切换工具
func (s *Server) handleSetTool(c *gin.Context) {
	var req ToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的工具请求：", err)
		return
	}

	if err := s.editor.SetTool(req.Tool); err != nil {
		fail(c, err)
		return
	}
	ok(c, "工具已切换", s.editor.State())
}

// handleSetColor 修改颜色
func (s *Server) handleSetColor(c *gin.Context) {
	var req ColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的颜色请求：", err)
		return
	}

	if err := s.editor.SetColor(req.Color); err != nil {
		fail(c, err)
		return
	}
	ok(c, "颜色已修改", s.editor.State())
}

// handlePointer 网格指针事件
func (s *Server) handlePointer(c *gin.Context) {
	var req PointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的指针事件：", err)
		return
	}

	if err := s.editor.Pointer(req.Event, req.Cell); err != nil {
		fail(c, err)
		return
	}
	ok(c, "", s.editor.State().Grid)
}

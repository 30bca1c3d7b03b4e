package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pixels/define"
	"pixels/render"
)

// frameParam 解析路径中的帧索引，帧不存在时直接返回 404
func (s *Server) frameParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "无效的帧索引：", err)
		return 0, false
	}
	if index < 0 || index >= s.editor.Model().FrameCount() {
		c.JSON(http.StatusNotFound, define.ApiResponse{
			Status: "error",
			Error:  fmt.Sprintf("帧 %d 不存在", index),
		})
		return 0, false
	}
	return index, true
}

// handleAddFrame 添加空白帧
func (s *Server) handleAddFrame(c *gin.Context) {
	index := s.editor.AddFrame()
	ok(c, "已添加新帧", FrameResponse{Index: index, Total: s.editor.Model().FrameCount()})
}

// handleDeleteFrame 删除帧
func (s *Server) handleDeleteFrame(c *gin.Context) {
	index, found := s.frameParam(c)
	if !found {
		return
	}

	if err := s.editor.DeleteFrame(index); err != nil {
		fail(c, err)
		return
	}
	ok(c, fmt.Sprintf("已删除帧 %d", index), s.editor.State().Timeline)
}

// handleSelectFrame 选中帧
func (s *Server) handleSelectFrame(c *gin.Context) {
	index, found := s.frameParam(c)
	if !found {
		return
	}

	if err := s.editor.SelectFrame(index); err != nil {
		fail(c, err)
		return
	}
	ok(c, "", s.editor.State())
}

// handleClearFrame 清空帧
func (s *Server) handleClearFrame(c *gin.Context) {
	index, found := s.frameParam(c)
	if !found {
		return
	}

	if err := s.editor.ClearFrame(index); err != nil {
		fail(c, err)
		return
	}
	ok(c, fmt.Sprintf("已清空帧 %d", index), s.editor.State())
}

// handleSetCell 写入单个单元格
func (s *Server) handleSetCell(c *gin.Context) {
	index, found := s.frameParam(c)
	if !found {
		return
	}
	cell, err := strconv.Atoi(c.Param("cell"))
	if err != nil {
		badRequest(c, "无效的单元格索引：", err)
		return
	}

	var req CellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的单元格请求：", err)
		return
	}

	if err := s.editor.SetCell(index, cell, req.Color); err != nil {
		fail(c, err)
		return
	}
	ok(c, "", s.editor.State().Grid)
}

// handleFrameThumbnail 帧缩略图 PNG
func (s *Server) handleFrameThumbnail(c *gin.Context) {
	index, found := s.frameParam(c)
	if !found {
		return
	}

	snap := s.editor.Model().Snapshot()
	if index >= len(snap.Frames) {
		c.Status(http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := render.WriteFramePNG(&buf, snap.Frames[index], snap.GridSize, s.thumbnailScale); err != nil {
		fail(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

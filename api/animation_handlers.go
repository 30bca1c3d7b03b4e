package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pixels/define"
	"pixels/persistence"
)

// maxImportSize 上传动画文件的大小上限
const maxImportSize = 8 << 20

// handleGetPresets 获取预设动画列表
func (s *Server) handleGetPresets(c *gin.Context) {
	catalog := s.editor.Presets()
	names := catalog.Names()

	infos := make([]PresetInfo, 0, len(names))
	for _, name := range names {
		p, _ := catalog.Get(name)
		infos = append(infos, PresetInfo{
			Name:        p.Name,
			Description: p.Description,
			GridSize:    p.GridSize,
			Speed:       p.Speed,
			Frames:      len(p.Frames),
		})
	}

	ok(c, "", PresetListResponse{Presets: infos, Total: len(infos)})
}

// handleLoadPreset 加载预设动画
func (s *Server) handleLoadPreset(c *gin.Context) {
	name := c.Param("name")
	if err := s.editor.LoadPreset(name); err != nil {
		fail(c, err)
		return
	}
	ok(c, fmt.Sprintf("已加载预设动画 %s", name), s.editor.State())
}

// handleExport 下载当前动画
func (s *Server) handleExport(c *gin.Context) {
	data, err := s.editor.Export()
	if err != nil {
		fail(c, err)
		return
	}

	filename := persistence.ExportFilename(time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, persistence.ContentType, data)
}

// handleImport 上传动画文件，支持 multipart 的 file 字段或直接提交 JSON
func (s *Server) handleImport(c *gin.Context) {
	blob, err := readUpload(c)
	if err != nil {
		badRequest(c, "读取上传文件失败：", err)
		return
	}

	if err := s.editor.Import(blob); err != nil {
		fail(c, err)
		return
	}
	ok(c, "动画已导入", s.editor.State())
}

func readUpload(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		if fh.Size > maxImportSize {
			return nil, define.NewValidationError("文件过大：%d 字节", fh.Size)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
}

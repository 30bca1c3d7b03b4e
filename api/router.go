package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pixels/define"
	"pixels/editor"
)

// Server API 服务器结构体
type Server struct {
	editor         *editor.Editor
	hub            *Hub
	startTime      time.Time
	version        string
	staticDir      string
	thumbnailScale int
}

// Option 服务器选项
type Option func(*Server)

// WithStaticDir 前端静态文件目录，为空时不挂载
func WithStaticDir(dir string) Option {
	return func(s *Server) { s.staticDir = dir }
}

// WithThumbnailScale 缩略图每个单元格的像素数
func WithThumbnailScale(scale int) Option {
	return func(s *Server) {
		if scale > 0 {
			s.thumbnailScale = scale
		}
	}
}

// NewServer 创建新的 API 服务器实例
func NewServer(ed *editor.Editor, opts ...Option) *Server {
	s := &Server{
		editor:         ed,
		startTime:      time.Now(),
		version:        "1.0.0",
		thumbnailScale: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = NewHub(ed)
	return s
}

// ThumbnailURL 缩略图地址
func ThumbnailURL(index int) string {
	return fmt.Sprintf("/api/v1/frames/%d/thumbnail.png", index)
}

// Hub WebSocket 推送中心
func (s *Server) Hub() *Hub { return s.hub }

// CORS 与前端联调使用的跨域配置
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // 允许的域，*表示允许所有
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// SetupRoutes 设置 API 路由
func (s *Server) SetupRoutes(r *gin.Engine) {
	if s.staticDir != "" {
		r.StaticFile("/", s.staticDir+"/index.html")
		r.Static("/static", s.staticDir)
	}

	r.GET("/ws", s.hub.HandleWS)

	v1 := r.Group("/api/v1")
	{
		// 编辑器状态与工具
		ed := v1.Group("/editor")
		{
			ed.GET("", s.handleGetState)              // 获取完整状态
			ed.PUT("/grid-size", s.handleSetGridSize) // 修改网格尺寸
			ed.PUT("/speed", s.handleSetSpeed)        // 修改播放速度
			ed.PUT("/tool", s.handleSetTool)          // 切换工具
			ed.PUT("/color", s.handleSetColor)        // 修改颜色
			ed.POST("/pointer", s.handlePointer)      // 指针事件
		}

		// 帧管理
		frames := v1.Group("/frames")
		{
			frames.POST("", s.handleAddFrame)                           // 添加帧
			frames.DELETE("/:index", s.handleDeleteFrame)               // 删除帧
			frames.POST("/:index/select", s.handleSelectFrame)          // 选中帧
			frames.POST("/:index/clear", s.handleClearFrame)            // 清空帧
			frames.PUT("/:index/cells/:cell", s.handleSetCell)          // 写入单元格
			frames.GET("/:index/thumbnail.png", s.handleFrameThumbnail) // 缩略图
		}

		// 播放控制
		playback := v1.Group("/playback")
		{
			playback.POST("/toggle", s.handleTogglePlayback) // 播放/停止
			playback.GET("/status", s.handlePlaybackStatus)  // 播放状态
		}

		// 预设动画
		presets := v1.Group("/presets")
		{
			presets.GET("", s.handleGetPresets)             // 预设列表
			presets.POST("/:name/load", s.handleLoadPreset) // 加载预设
		}

		// 导入导出
		anim := v1.Group("/animation")
		{
			anim.GET("/export", s.handleExport)  // 下载动画文件
			anim.POST("/import", s.handleImport) // 上传动画文件
		}

		// 设备通信
		dev := v1.Group("/device")
		{
			dev.POST("/connect", s.handleConnect)    // 连接设备
			dev.POST("/push", s.handlePush)          // 推送动画
			dev.GET("/status", s.handleDeviceStatus) // 设备状态
		}

		// 系统管理
		system := v1.Group("/system")
		{
			system.GET("/health", s.handleHealthCheck) // 健康检查
		}
	}
}

// ok 成功响应
func ok(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, define.ApiResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// fail 把错误映射为 HTTP 状态码
func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), define.ApiResponse{
		Status: "error",
		Error:  err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, editor.ErrPresetNotFound):
		return http.StatusNotFound
	case define.IsValidationError(err), define.IsParseError(err):
		return http.StatusBadRequest
	case define.IsTransportError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// badRequest 请求参数无效
func badRequest(c *gin.Context, prefix string, err error) {
	c.JSON(http.StatusBadRequest, define.ApiResponse{
		Status: "error",
		Error:  prefix + err.Error(),
	})
}

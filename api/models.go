package api

import (
	"time"

	"pixels/device"
	"pixels/render"
)

// ===== 编辑器相关模型 =====

// GridSizeRequest 网格尺寸设置请求
type GridSizeRequest struct {
	GridSize int `json:"gridSize" binding:"required,min=1"`
}

// SpeedRequest 播放速度设置请求
type SpeedRequest struct {
	Speed float64 `json:"speed" binding:"required,gt=0"`
}

// ToolRequest 工具切换请求
type ToolRequest struct {
	Tool string `json:"tool" binding:"required,oneof=pencil eraser"`
}

// ColorRequest 颜色设置请求
type ColorRequest struct {
	Color string `json:"color" binding:"required"`
}

// PointerRequest 指针事件请求
type PointerRequest struct {
	Event render.PointerEvent `json:"event" binding:"required"`
	Cell  int                 `json:"cell"`
}

// CellRequest 单元格写入请求
type CellRequest struct {
	Color string `json:"color" binding:"required"`
}

// ===== 帧与播放相关模型 =====

// FrameResponse 帧操作响应
type FrameResponse struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

// PlaybackStatusResponse 播放状态响应
type PlaybackStatusResponse struct {
	Playing     bool    `json:"playing"`
	Speed       float64 `json:"speed"`
	ActiveFrame int     `json:"activeFrame"`
	Total       int     `json:"total"`
}

// ===== 预设相关模型 =====

// PresetInfo 预设信息
type PresetInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	GridSize    int     `json:"gridSize"`
	Speed       float64 `json:"speed"`
	Frames      int     `json:"frames"`
}

// PresetListResponse 预设列表响应
type PresetListResponse struct {
	Presets []PresetInfo `json:"presets"`
	Total   int          `json:"total"`
}

// ===== 设备相关模型 =====

// ConnectRequest 设备连接请求
type ConnectRequest struct {
	Address string `json:"address" binding:"required"`
}

// PushResponse 推送结果
type PushResponse struct {
	Sent   bool          `json:"sent"`
	Device device.Status `json:"device"`
}

// ===== 系统相关模型 =====

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Playing   bool      `json:"playing"`
	Clients   int       `json:"clients"`
}

// ===== WebSocket 消息 =====

// ControlMessage 客户端通过 WebSocket 发送的控制消息
type ControlMessage struct {
	Type  string              `json:"type"`
	Event render.PointerEvent `json:"event,omitempty"`
	Cell  int                 `json:"cell,omitempty"`
	Frame int                 `json:"frame,omitempty"`
	Tool  string              `json:"tool,omitempty"`
	Color string              `json:"color,omitempty"`
}

// StreamMessage 服务端推送的消息
type StreamMessage struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

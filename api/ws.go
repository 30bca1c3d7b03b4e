package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"pixels/define"
	"pixels/editor"
	"pixels/render"
)

const writeWait = time.Second

// Hub 管理 WebSocket 客户端：推送编辑器状态，并接收指针与控制消息
type Hub struct {
	editor   *editor.Editor
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewHub 创建推送中心
func NewHub(ed *editor.Editor) *Hub {
	return &Hub{
		editor:   ed,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  map[*websocket.Conn]bool{},
	}
}

// ClientCount 当前连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWS 升级连接。每个连接一个写协程和独立的拖拽状态，读循环在当前协程中处理控制消息。
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("❌ WebSocket 升级失败")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("🔌 WebSocket 客户端已连接")

	stroke := h.editor.NewStroke()
	states, cancel := h.editor.Subscribe()
	replies := make(chan StreamMessage, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(conn, states, replies)
	}()

	defer func() {
		cancel()
		<-done
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
		log.Debug().Msg("🔌 WebSocket 客户端已断开")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ControlMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			reply(replies, StreamMessage{Type: "error", Error: "无效的消息：" + err.Error()})
			continue
		}
		if resp, ok := h.apply(msg, stroke); ok {
			reply(replies, resp)
		}
	}
}

func reply(replies chan<- StreamMessage, msg StreamMessage) {
	select {
	case replies <- msg:
	default:
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, states <-chan editor.State, replies <-chan StreamMessage) {
	if err := writeJSON(conn, StreamMessage{Type: "state", Data: h.editor.State()}); err != nil {
		return
	}
	for {
		select {
		case st, ok := <-states:
			if !ok {
				return
			}
			if err := writeJSON(conn, StreamMessage{Type: "state", Data: st}); err != nil {
				log.Debug().Err(err).Msg("write state")
				return
			}
		case msg := <-replies:
			if err := writeJSON(conn, msg); err != nil {
				return
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, msg StreamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

// apply 执行一条控制消息，返回需要单独回复给该客户端的消息
func (h *Hub) apply(msg ControlMessage, stroke *render.Stroke) (StreamMessage, bool) {
	var err error
	switch msg.Type {
	case "pointer":
		err = h.editor.StrokePointer(stroke, msg.Event, msg.Cell)
	case "select":
		err = h.editor.SelectFrame(msg.Frame)
	case "delete":
		err = h.editor.DeleteFrame(msg.Frame)
	case "add":
		h.editor.AddFrame()
	case "tool":
		err = h.editor.SetTool(msg.Tool)
	case "color":
		err = h.editor.SetColor(msg.Color)
	case "toggle":
		h.editor.TogglePlayback()
	case "state":
		return StreamMessage{Type: "state", Data: h.editor.State()}, true
	default:
		err = define.NewValidationError("未知的消息类型：%q", msg.Type)
	}

	if err != nil {
		return StreamMessage{Type: "error", Error: err.Error()}, true
	}
	return StreamMessage{}, false
}

package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"pixels/animation"
	"pixels/define"
)

// defaultTimeout 设备请求的默认超时
const defaultTimeout = 5 * time.Second

// AnimationPayload 推送给设备的动画数据
type AnimationPayload struct {
	GridSize int        `json:"gridSize"`
	Frames   [][]string `json:"frames"`
}

// Status 设备连接状态
type Status struct {
	Connected bool      `json:"connected"`
	Address   string    `json:"address,omitempty"`
	LastError string    `json:"lastError,omitempty"`
	Since     time.Time `json:"since"`
}

// Client 与 LED 点阵设备的 HTTP 通信：连接探测与动画推送，单次尝试不重试
type Client struct {
	client *http.Client

	mu        sync.RWMutex
	connected bool
	address   string
	lastError string
	since     time.Time
}

// NewClient 创建设备客户端，timeout <= 0 时使用默认超时
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
		since:  time.Now(),
	}
}

// NewClientWithHTTP 使用自定义 http.Client
func NewClientWithHTTP(hc *http.Client) *Client {
	return &Client{client: hc, since: time.Now()}
}

// BaseURL 把设备地址转换为 http://<address>
func BaseURL(address string) string {
	address = strings.TrimRight(strings.TrimSpace(address), "/")
	if strings.HasPrefix(address, "http://") || strings.HasPrefix(address, "https://") {
		return address
	}
	return "http://" + address
}

// Connect 探测设备是否可达，2xx 即视为已连接
func (c *Client) Connect(ctx context.Context, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return define.NewValidationError("设备地址不能为空")
	}

	url := BaseURL(address) + "/connect"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return c.disconnect(&define.TransportError{Op: "connect", Address: address, Err: fmt.Errorf("创建 HTTP 请求失败：%w", err)})
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return c.disconnect(&define.TransportError{Op: "connect", Address: address, Err: err})
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if !isSuccess(resp.StatusCode) {
		return c.disconnect(&define.TransportError{Op: "connect", Address: address, StatusCode: resp.StatusCode})
	}

	c.mu.Lock()
	c.connected = true
	c.address = address
	c.lastError = ""
	c.since = time.Now()
	c.mu.Unlock()

	log.Info().Str("address", address).Msg("✅ 设备已连接")
	return nil
}

func (c *Client) disconnect(err *define.TransportError) error {
	c.mu.Lock()
	c.connected = false
	c.lastError = err.Error()
	c.since = time.Now()
	c.mu.Unlock()

	log.Warn().Err(err).Str("address", err.Address).Msg("❌ 设备连接失败")
	return err
}

// PushAnimation 把快照推送到已连接的设备。未连接时静默返回 (false, nil)；
// 推送失败不会改变连接状态。
func (c *Client) PushAnimation(ctx context.Context, snap animation.Snapshot) (bool, error) {
	c.mu.RLock()
	connected, address := c.connected, c.address
	c.mu.RUnlock()

	if !connected {
		log.Debug().Msg("ℹ️ 设备未连接，忽略推送")
		return false, nil
	}

	jsonData, err := json.Marshal(AnimationPayload{
		GridSize: snap.GridSize,
		Frames:   snap.FrameStrings(),
	})
	if err != nil {
		return false, fmt.Errorf("序列化动画失败：%w", err)
	}

	url := BaseURL(address) + "/animation"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return false, &define.TransportError{Op: "push", Address: address, Err: fmt.Errorf("创建 HTTP 请求失败：%w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, c.pushFailed(&define.TransportError{Op: "push", Address: address, Err: err})
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, c.pushFailed(&define.TransportError{
			Op:         "push",
			Address:    address,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("设备返回：%s", strings.TrimSpace(string(body))),
		})
	}

	log.Info().Str("address", address).Int("frames", len(snap.Frames)).Msg("📡 动画已发送到设备")
	return true, nil
}

func (c *Client) pushFailed(err *define.TransportError) error {
	c.mu.Lock()
	c.lastError = err.Error()
	c.mu.Unlock()

	log.Warn().Err(err).Msg("❌ 发送动画失败")
	return err
}

// Status 当前连接状态
func (c *Client) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{
		Connected: c.connected,
		Address:   c.address,
		LastError: c.lastError,
		Since:     c.since,
	}
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func isSuccess(code int) bool { return code >= 200 && code < 300 }

// Package transport
// ws_channel.go
// 核心职责：基于 gorilla/websocket 的通道实现，
// 每条通道一个读协程，把入站帧投递进事件循环的共享队列
package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"kama_chat_client/pkg/constants"
	"kama_chat_client/pkg/errorx"
)

// WSDialer 真实网络环境下的 Dialer 实现
type WSDialer struct {
	baseURL string // ws(s)://host:port/ws
	token   string
	dialer  *websocket.Dialer
}

// NewWSDialer 创建 WebSocket 拨号器
func NewWSDialer(baseURL, token string) *WSDialer {
	return &WSDialer{
		baseURL: baseURL,
		token:   token,
		dialer: &websocket.Dialer{
			HandshakeTimeout: constants.DIAL_TIMEOUT_SEC * time.Second,
		},
	}
}

// DialConversation 建立某个会话的消息通道
func (d *WSDialer) DialConversation(ctx context.Context, key string, events chan<- Event) (Channel, error) {
	u := fmt.Sprintf("%s/chat/%s?token=%s", d.baseURL, url.PathEscape(key), url.QueryEscape(d.token))
	return d.dial(ctx, u, key, events)
}

// DialPresence 建立全局在线状态通道
func (d *WSDialer) DialPresence(ctx context.Context, events chan<- Event) (Channel, error) {
	u := fmt.Sprintf("%s/presence?token=%s", d.baseURL, url.QueryEscape(d.token))
	return d.dial(ctx, u, "", events)
}

// dial 带退避的拨号
// 服务端以 401/403 拒绝握手时立即放弃（凭证问题重试无意义），
// 网络类失败按指数退避重试有限次
func (d *WSDialer) dial(ctx context.Context, wsURL, key string, events chan<- Event) (Channel, error) {
	connID := uuid.New().String()[:8]
	var lastErr error
	for attempt := 0; attempt <= constants.DIAL_MAX_RETRIES; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(constants.DIAL_BACKOFF_BASE_MS<<(attempt-1)) * time.Millisecond
			zap.L().Debug("websocket 拨号重试",
				zap.String("conn_id", connID),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		conn, resp, err := d.dialer.DialContext(ctx, wsURL, nil)
		if err == nil {
			ch := newWSChannel(conn, connID, key, events)
			events <- Event{Kind: EventOpened, Key: key}
			go ch.readPump()
			return ch, nil
		}
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			zap.L().Warn("websocket 握手被拒绝",
				zap.String("conn_id", connID),
				zap.Int("status", resp.StatusCode))
			return nil, errorx.Wrap(err, errorx.CodeAuthExpired, errorx.ErrAuthExpired.Msg)
		}
		lastErr = err
	}
	return nil, errorx.Wrapf(lastErr, errorx.CodeChannelNotOpen, "websocket 拨号失败 (key=%s)", key)
}

// wsChannel Channel 的 gorilla 实现
// gorilla 的连接不允许并发写，Send 用互斥锁串行化
type wsChannel struct {
	conn   *websocket.Conn
	connID string
	key    string
	events chan<- Event

	writeMu   sync.Mutex
	closeOnce sync.Once
	stopped   chan struct{} // Close 时关闭，解除读协程在事件投递上的阻塞
	pumpDone  chan struct{} // 读协程退出时关闭
}

func newWSChannel(conn *websocket.Conn, connID, key string, events chan<- Event) *wsChannel {
	return &wsChannel{
		conn:     conn,
		connID:   connID,
		key:      key,
		events:   events,
		stopped:  make(chan struct{}),
		pumpDone: make(chan struct{}),
	}
}

// Send 发送一帧 JSON 消息
func (c *wsChannel) Send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(v); err != nil {
		return errorx.Wrap(err, errorx.CodeChannelClosed, errorx.ErrChannelClosed.Msg)
	}
	return nil
}

// Close 关闭通道，幂等
// 读协程随后会因读失败退出并投递 EventClosed
func (c *wsChannel) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopped)
		deadline := time.Now().Add(time.Second)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.writeMu.Unlock()
		_ = c.conn.Close()
	})
	return nil
}

// post 投递一个事件
// 通道被本地关闭后放弃投递：此时事件循环可能已经停止消费，
// 阻塞发送会把读协程和连接一起泄漏
func (c *wsChannel) post(ev Event) {
	select {
	case c.events <- ev:
	case <-c.stopped:
	}
}

// readPump 读协程，每条通道一个
// 任何读错误都视为通道结束，投递 EventClosed 后退出
func (c *wsChannel) readPump() {
	defer func() {
		_ = c.conn.Close()
		close(c.pumpDone)
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.L().Warn("websocket 连接异常断开",
					zap.String("conn_id", c.connID),
					zap.String("key", c.key),
					zap.Error(err))
			}
			c.post(Event{Kind: EventClosed, Key: c.key, Err: err})
			return
		}
		c.post(Event{Kind: EventFrame, Key: c.key, Payload: data})
	}
}

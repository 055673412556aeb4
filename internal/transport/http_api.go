// Package transport
// http_api.go
// 核心职责：历史消息分页、会话列表、回执补偿三个 REST 接口的客户端，
// 401/403 统一归一为凭证过期错误向上传递
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"kama_chat_client/internal/conversation"
	"kama_chat_client/internal/dto/respond"
	"kama_chat_client/internal/model"
	"kama_chat_client/pkg/constants"
	"kama_chat_client/pkg/errorx"
)

// PageResult 一页历史消息
// Messages 保持服务端顺序（从新到旧），Next 为更旧一页的完整 URL
type PageResult struct {
	Messages []model.Message
	Next     *string
}

// UserChats 已有的私聊对象与已加入的房间
type UserChats struct {
	DMs   []model.UserRef
	Rooms []string
}

// HTTPClient HistoryAPI 的真实网络实现
type HTTPClient struct {
	baseURL string // http(s)://host:port/api
	token   string
	client  *http.Client
}

// NewHTTPClient 创建 REST 接口客户端
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: constants.FETCH_TIMEOUT_SEC * time.Second,
		},
	}
}

// InitialPageURL 构造某会话第一页历史的完整 URL
// 后续页的 URL 由服务端在响应的 next 字段里给出，客户端不自行拼接
func (c *HTTPClient) InitialPageURL(target conversation.Target) string {
	if target.Kind() == conversation.KindDM {
		return fmt.Sprintf("%s/messages/?receiver_id=%d", c.baseURL, target.User().ID)
	}
	return fmt.Sprintf("%s/messages/?room_name=%s", c.baseURL, url.QueryEscape(target.RoomName()))
}

// FetchPage 拉取一页历史消息
func (c *HTTPClient) FetchPage(ctx context.Context, pageURL string) (*PageResult, error) {
	var page respond.MessagePageRespond
	if err := c.getJSON(ctx, pageURL, &page); err != nil {
		return nil, err
	}
	return &PageResult{Messages: page.Results, Next: page.Next}, nil
}

// FetchUserChats 拉取已有私聊对象与已加入房间的列表
func (c *HTTPClient) FetchUserChats(ctx context.Context) (*UserChats, error) {
	var chats respond.UserChatsRespond
	if err := c.getJSON(ctx, c.baseURL+"/user-chats/", &chats); err != nil {
		return nil, err
	}
	return &UserChats{DMs: chats.DMs, Rooms: chats.Rooms}, nil
}

// SyncReadReceipts 补偿拉取某会话中自己已发出且对方已读的消息 id
// 覆盖会话通道断开期间漏掉的回执事件
func (c *HTTPClient) SyncReadReceipts(ctx context.Context, key string) ([]int64, error) {
	u := fmt.Sprintf("%s/messages/?conversation_id=%s&sync_receipts=true", c.baseURL, url.QueryEscape(key))
	var sync respond.ReadReceiptSyncRespond
	if err := c.getJSON(ctx, u, &sync); err != nil {
		return nil, err
	}
	return sync.ReadMessageIDs, nil
}

// getJSON 带 Bearer 鉴权的 GET 请求并反序列化响应
func (c *HTTPClient) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeInvalidParam, "构造请求失败")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeHistoryFetch, errorx.ErrHistoryFetch.Msg)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		zap.L().Warn("REST 请求被拒绝", zap.String("url", reqURL), zap.Int("status", resp.StatusCode))
		return errorx.Newf(errorx.CodeAuthExpired, "%s (status=%d)", errorx.ErrAuthExpired.Msg, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return errorx.Newf(errorx.CodeHistoryFetch, "服务端返回异常状态码 %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errorx.Wrap(err, errorx.CodeHistoryFetch, "响应解析失败")
	}
	return nil
}

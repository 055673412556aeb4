// Package transport 封装与服务端的两类通道：WebSocket 实时通道与 REST 历史接口
// interface.go
// 核心职责：定义通道与历史接口的抽象，事件循环只依赖这里的接口，
// 便于在测试中用内存实现替换真实网络
package transport

import (
	"context"

	"kama_chat_client/internal/conversation"
)

// EventKind 通道事件种类
type EventKind int

const (
	EventOpened EventKind = iota // 通道握手成功
	EventFrame                   // 收到一帧完整消息
	EventClosed                  // 通道关闭（对端关闭或本地 Close）
)

// Event 通道产生的事件，由读协程投递进事件循环的队列
type Event struct {
	Kind    EventKind
	Key     string // 会话 key；presence 通道为空
	Payload []byte // 仅 EventFrame 有效，原始 JSON 帧
	Err     error  // 仅 EventClosed 可能携带
}

// Channel 一条已建立的 WebSocket 通道
type Channel interface {
	// Send 发送一帧 JSON 消息，任意 goroutine 可调用
	Send(v any) error
	// Close 关闭通道，幂等
	Close() error
}

// Dialer 建立 WebSocket 通道
// events 为共享事件队列，通道生命周期内的所有事件都投递到这里
type Dialer interface {
	DialConversation(ctx context.Context, key string, events chan<- Event) (Channel, error)
	DialPresence(ctx context.Context, events chan<- Event) (Channel, error)
}

// HistoryAPI 历史消息与会话列表的 REST 接口
type HistoryAPI interface {
	// InitialPageURL 构造某会话第一页历史的完整 URL
	// 私聊按对方用户 id、群聊按房间名定位
	InitialPageURL(target conversation.Target) string
	// FetchPage 按完整 URL 拉取一页历史（首屏或 next 游标）
	FetchPage(ctx context.Context, pageURL string) (*PageResult, error)
	// FetchUserChats 拉取已有私聊对象与已加入房间的列表
	FetchUserChats(ctx context.Context) (*UserChats, error)
	// SyncReadReceipts 补偿拉取某会话中自己已发出且已被读的消息 id
	SyncReadReceipts(ctx context.Context, key string) ([]int64, error)
}

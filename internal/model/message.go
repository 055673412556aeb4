// Package model 定义客户端侧的领域模型
// 本文件定义消息模型，字段与服务端序列化器的 JSON 输出一一对应
package model

import "time"

// UserRef 消息中内嵌的用户引用
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Message 消息模型
// 消息身份是服务端分配的 ID；客户端不生成消息 id，也不做乐观渲染，
// 所有进入存储的消息都已经有服务端 id
type Message struct {
	// ID 服务端分配的消息 id，会话内唯一
	ID int64 `json:"id"`

	// Sender 发送者
	Sender UserRef `json:"sender"`

	// Receiver 接收者，仅私聊消息存在，群聊为 null
	Receiver *UserRef `json:"receiver"`

	// Content 消息文本内容，图片消息时为空
	Content string `json:"message"`

	// ImageContent 图片内容，dataURL 形式的 base64 字符串
	ImageContent string `json:"image_content"`

	// Type 消息类型，text 或 image
	// 参见 pkg/enum/message/message_type_enum
	Type string `json:"message_type"`

	// RoomName 房间名（群聊）或 DM 会话 key（私聊时服务端回填）
	RoomName string `json:"room_name"`

	// IsDM 是否私聊消息
	IsDM bool `json:"is_dm"`

	// Timestamp 服务端时间戳，存储顺序以它为准
	Timestamp time.Time `json:"timestamp"`

	// IsRead 已读标记
	// 对方发来的消息：表示本端是否已读
	// 本端发出的消息：表示对方是否已读（双勾）
	IsRead bool `json:"is_read"`
}

// RoomStatus 公共房间快照项（presence 通道推送）
type RoomStatus struct {
	Name        string `json:"name"`
	OnlineCount int    `json:"online_count"`
}

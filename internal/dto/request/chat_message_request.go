package request

// ChatMessageRequest 聊天消息请求 (WebSocket 出站)
// 使用位置:
//   - internal/client/client.go: handleSend
type ChatMessageRequest struct {
	Type         string  `json:"type"` // 固定为 "chat_message"
	Sender       string  `json:"sender"`
	RoomName     *string `json:"room_name"`     // 群聊时为房间名，私聊为 null
	IsDM         bool    `json:"is_dm"`
	Receiver     *string `json:"receiver"`      // 私聊时为对方用户名，群聊为 null
	Message      *string `json:"message"`       // 文本内容，图片消息为 null
	ImageContent *string `json:"image_content"` // dataURL 图片内容，文本消息为 null
	MsgType      string  `json:"msg_type"`      // text / image
}

// EventChatMessage WebSocket 事件类型常量
const EventChatMessage = "chat_message"

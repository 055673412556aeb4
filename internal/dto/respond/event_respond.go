package respond

// EventEnvelope WebSocket 入站事件信封
// 先按 type 字段识别事件种类，再做完整反序列化
type EventEnvelope struct {
	Type string `json:"type"`
}

// WebSocket 入站事件类型常量
const (
	EventChatMessage          = "chat_message"
	EventMessagesMarkedAsRead = "messages_marked_as_read"
	EventUserList             = "user_list"
	EventDetailedRoomList     = "detailed_room_list"
)

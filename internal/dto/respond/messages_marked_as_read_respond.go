package respond

// MessagesMarkedAsReadRespond 已读回执事件 (WebSocket 入站)
// room_name 字段携带的是会话 key（房间名或 dm_{min}_{max}）
type MessagesMarkedAsReadRespond struct {
	Type       string  `json:"type"`
	RoomName   string  `json:"room_name"`
	MessageIDs []int64 `json:"message_ids"`
}

package request

// MarkReadBatchRequest 批量已读回执请求 (WebSocket 出站)
// 打开一个有大量未读消息的会话时，把所有未读 id 收进一个事件一次发出，
// 避免逐条发送造成请求风暴（取代早期协议的单条 mark_read）
type MarkReadBatchRequest struct {
	Type       string  `json:"type"` // 固定为 "mark_read_batch"
	MessageIDs []int64 `json:"message_ids"`
}

// EventMarkReadBatch WebSocket 事件类型常量
const EventMarkReadBatch = "mark_read_batch"

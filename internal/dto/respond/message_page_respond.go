package respond

import "kama_chat_client/internal/model"

// MessagePageRespond 历史消息分页响应 (GET /messages/)
// results 按时间从新到旧排列；next 为下一页（更旧一页）的完整 URL，
// 为 null 表示最旧一页已经取完
type MessagePageRespond struct {
	Results []model.Message `json:"results"`
	Next    *string         `json:"next"`
}

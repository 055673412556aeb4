package respond

import "kama_chat_client/internal/model"

// UserChatsRespond 初始会话列表响应 (GET /user-chats/)
type UserChatsRespond struct {
	DMs   []model.UserRef `json:"dms"`
	Rooms []string        `json:"rooms"`
}

package respond

import "kama_chat_client/internal/model"

// UserListRespond 在线用户列表快照 (presence 通道入站)
// 全量替换，不是增量合并
type UserListRespond struct {
	Type  string          `json:"type"`
	Users []model.UserRef `json:"users"`
}

// DetailedRoomListRespond 公共房间列表快照 (presence 通道入站)
// 全量替换，不是增量合并
type DetailedRoomListRespond struct {
	Type  string             `json:"type"`
	Rooms []model.RoomStatus `json:"rooms"`
}

// Package conversation 提供会话标识的统一解析
// 建连、入站消息归并、侧边栏未读计数三处必须用同一套推导逻辑，
// 任何一处走了别的推导（比如用用户名拼 key）都会导致消息串会话
package conversation

import "kama_chat_client/internal/model"

// Kind 会话种类
type Kind string

const (
	KindDM   Kind = "dm"   // 一对一私聊
	KindRoom Kind = "room" // 群聊房间
)

// Target 会话目标的带标签变体
// 取代"有时是用户对象、有时是房间名字符串"的运行时类型判断
type Target struct {
	kind Kind
	room string
	user model.UserRef
}

// Room 构造房间目标
func Room(name string) Target {
	return Target{kind: KindRoom, room: name}
}

// DirectUser 构造私聊目标
func DirectUser(id int64, username string) Target {
	return Target{kind: KindDM, user: model.UserRef{ID: id, Username: username}}
}

// Kind 返回会话种类
func (t Target) Kind() Kind {
	return t.kind
}

// RoomName 房间名，仅 KindRoom 有效
func (t Target) RoomName() string {
	return t.room
}

// User 私聊对象，仅 KindDM 有效
func (t Target) User() model.UserRef {
	return t.user
}

// DisplayName 目标的展示名
func (t Target) DisplayName() string {
	if t.kind == KindRoom {
		return t.room
	}
	return t.user.Username
}

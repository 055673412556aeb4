// Package client
// snapshot.go
// 核心职责：给嵌入方（TUI/GUI 层）提供状态快照，
// 全部返回副本，调用方持有快照期间事件循环可以继续推进
package client

import "kama_chat_client/internal/model"

// PresenceSnapshot 在线状态快照
type PresenceSnapshot struct {
	Online []model.UserRef    // 当前在线用户
	Rooms  []model.RoomStatus // 公共房间及其在线人数
}

// Sidebar 侧边栏快照：已有私聊对象、已加入房间、各会话未读数
type Sidebar struct {
	DMs         []model.UserRef
	JoinedRooms []string
	Unread      map[string]int // key -> 未读条数，只含非零项
}

// ConversationView 单个会话的视图快照
type ConversationView struct {
	Key      string
	Open     bool            // 通道是否建立
	Active   bool            // 是否为当前激活会话
	Messages []model.Message // 时间正序
	Unread   int
	HasMore  bool // 是否还有更早的历史页
	Loading  bool // 是否有一页在途
}

// Presence 获取在线状态快照
func (c *ChatClient) Presence() PresenceSnapshot {
	var snap PresenceSnapshot
	_ = c.invoke(func() {
		snap.Online = append([]model.UserRef(nil), c.online...)
		snap.Rooms = append([]model.RoomStatus(nil), c.rooms...)
	})
	return snap
}

// Sidebar 获取侧边栏快照
func (c *ChatClient) Sidebar() Sidebar {
	var snap Sidebar
	_ = c.invoke(func() {
		snap.DMs = append([]model.UserRef(nil), c.dms...)
		snap.JoinedRooms = append([]string(nil), c.joined...)
		snap.Unread = c.unread.All()
	})
	return snap
}

// Conversation 获取单个会话的视图快照
func (c *ChatClient) Conversation(key string) ConversationView {
	view := ConversationView{Key: key}
	_ = c.invoke(func() {
		_, view.Open = c.registry[key]
		view.Active = c.active == key
		view.Messages = c.log.Get(key)
		view.Unread = c.unread.Get(key)
		view.HasMore = c.pager.HasMore(key)
		view.Loading = c.pager.Loading(key)
	})
	return view
}

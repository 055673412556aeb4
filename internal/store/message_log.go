// Package store 维护每个会话的内存消息序列与未读计数
// message_log.go
// 核心职责：按消息 id 去重、按时间戳稳定排序的会话消息表，
// 推送消息与历史分页走同一套归并，同一条消息到达多次结果不变
package store

import (
	"sort"

	"kama_chat_client/internal/model"
)

// MessageLog 所有会话的消息序列，key 为规范化会话标识
// 不做任何并发保护：只允许事件循环这一个 goroutine 访问
type MessageLog struct {
	logs map[string][]model.Message
}

// NewMessageLog 创建空消息表
func NewMessageLog() *MessageLog {
	return &MessageLog{logs: make(map[string][]model.Message)}
}

// merge 以 id 为准做并集，重复 id 保留 fresher 一侧，随后按时间戳稳定排序
// existing/incoming 的先后关系决定同时间戳消息的相对顺序
func merge(first, second []model.Message, secondWins bool) []model.Message {
	seen := make(map[int64]int, len(first))
	out := make([]model.Message, 0, len(first)+len(second))
	for _, m := range first {
		seen[m.ID] = len(out)
		out = append(out, m)
	}
	for _, m := range second {
		if idx, ok := seen[m.ID]; ok {
			if secondWins {
				out[idx] = m
			}
			continue
		}
		seen[m.ID] = len(out)
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// MergePush 归并一条实时推送消息
// 已存在同 id 消息时以推送版本覆盖（服务端状态更新），整体仍保持时间序
func (l *MessageLog) MergePush(key string, msg model.Message) {
	l.logs[key] = merge(l.logs[key], []model.Message{msg}, true)
}

// MergePage 归并一页历史消息（服务端 newest-first，这里先反转为时间正序）
// 已存在的消息保留现有版本：本地可能已有更新的已读状态
func (l *MessageLog) MergePage(key string, page []model.Message) {
	ordered := make([]model.Message, len(page))
	for i, m := range page {
		ordered[len(page)-1-i] = m
	}
	l.logs[key] = merge(ordered, l.logs[key], true)
}

// Replace 用首屏页整体替换会话序列
func (l *MessageLog) Replace(key string, page []model.Message) {
	l.logs[key] = nil
	l.MergePage(key, page)
}

// MarkRead 按服务端回执把指定消息标记为已读，返回实际发生变更的条数
// 未知 id 忽略，重复回执是无操作
func (l *MessageLog) MarkRead(key string, ids []int64) int {
	msgs := l.logs[key]
	if len(msgs) == 0 || len(ids) == 0 {
		return 0
	}
	idSet := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	changed := 0
	for i := range msgs {
		if _, ok := idSet[msgs[i].ID]; ok && !msgs[i].IsRead {
			msgs[i].IsRead = true
			changed++
		}
	}
	return changed
}

// UnreadFrom 收集会话中对方发来且未读的消息 id（用于批量上报）
func (l *MessageLog) UnreadFrom(key string, selfID int64) []int64 {
	var ids []int64
	for _, m := range l.logs[key] {
		if !m.IsRead && m.Sender.ID != selfID {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// Get 返回会话消息序列的副本，调用方可安全持有
func (l *MessageLog) Get(key string) []model.Message {
	msgs := l.logs[key]
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Len 会话当前消息条数
func (l *MessageLog) Len(key string) int {
	return len(l.logs[key])
}

// Remove 丢弃单个会话的消息序列
func (l *MessageLog) Remove(key string) {
	delete(l.logs, key)
}

// Reset 丢弃全部会话状态（登出）
func (l *MessageLog) Reset() {
	l.logs = make(map[string][]model.Message)
}

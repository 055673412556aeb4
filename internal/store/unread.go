package store

// UnreadCounters 各会话的未读条数，驱动侧边栏角标
// 和 MessageLog 一样只在事件循环内访问
type UnreadCounters struct {
	counts map[string]int
}

// NewUnreadCounters 创建空计数表
func NewUnreadCounters() *UnreadCounters {
	return &UnreadCounters{counts: make(map[string]int)}
}

// Incr 未读数加一
func (u *UnreadCounters) Incr(key string) {
	u.counts[key]++
}

// Clear 清零（会话被激活查看时）
func (u *UnreadCounters) Clear(key string) {
	delete(u.counts, key)
}

// Get 当前未读数
func (u *UnreadCounters) Get(key string) int {
	return u.counts[key]
}

// All 所有非零计数的快照副本
func (u *UnreadCounters) All() map[string]int {
	out := make(map[string]int, len(u.counts))
	for k, v := range u.counts {
		out[k] = v
	}
	return out
}

// Remove 丢弃单个会话的计数
func (u *UnreadCounters) Remove(key string) {
	delete(u.counts, key)
}

// Reset 丢弃全部计数
func (u *UnreadCounters) Reset() {
	u.counts = make(map[string]int)
}

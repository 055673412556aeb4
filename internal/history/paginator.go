// Package history 跟踪各会话的历史分页游标
// paginator.go
// 核心职责：区分"从未拉取 / 还有更早页 / 已拉到头"三种状态，
// 并在一页在途时拒绝重复拉取，保证向后翻页必然终止
package history

// Cursor 单个会话的分页状态
type Cursor struct {
	fetched bool    // 是否拉取过首屏页
	next    *string // 下一页（更早消息）的游标，nil 表示已拉到头
	loading bool    // 是否有一页在途
}

// Paginator 所有会话的分页游标，只在事件循环内访问
type Paginator struct {
	cursors map[string]*Cursor
}

// NewPaginator 创建空游标表
func NewPaginator() *Paginator {
	return &Paginator{cursors: make(map[string]*Cursor)}
}

func (p *Paginator) cursor(key string) *Cursor {
	c, ok := p.cursors[key]
	if !ok {
		c = &Cursor{}
		p.cursors[key] = c
	}
	return c
}

// BeginInitial 开始首屏拉取，置 loading
// 首屏不看 next：激活会话时总是无条件重拉第一页
func (p *Paginator) BeginInitial(key string) {
	c := p.cursor(key)
	c.loading = true
}

// BeginOlder 尝试开始向更早翻页
// 返回下一页游标；无更早页、未拉过首屏或已有一页在途时返回 ("", false)
// 拒绝路径不分配游标记录：Known 的语义是"会话打开过"，
// 单纯的翻页探询不能把一个从未打开的 key 变成已知会话
func (p *Paginator) BeginOlder(key string) (string, bool) {
	c, ok := p.cursors[key]
	if !ok || c.loading || !c.fetched || c.next == nil {
		return "", false
	}
	c.loading = true
	return *c.next, true
}

// CompletePage 一页返回后记录新的 next 游标并清除在途标记
// next 为 nil 表示没有更早的消息了
func (p *Paginator) CompletePage(key string, next *string) {
	c := p.cursor(key)
	c.fetched = true
	c.loading = false
	c.next = next
}

// Fail 一页失败后仅清除在途标记，游标不前进，可重试
func (p *Paginator) Fail(key string) {
	p.cursor(key).loading = false
}

// Fetched 是否已拉取过首屏页
func (p *Paginator) Fetched(key string) bool {
	c, ok := p.cursors[key]
	return ok && c.fetched
}

// Loading 是否有一页在途
func (p *Paginator) Loading(key string) bool {
	c, ok := p.cursors[key]
	return ok && c.loading
}

// HasMore 是否还有更早的页可拉
func (p *Paginator) HasMore(key string) bool {
	c, ok := p.cursors[key]
	return ok && c.fetched && c.next != nil
}

// Known 该会话是否有游标记录（用于丢弃已关闭会话的迟到响应）
func (p *Paginator) Known(key string) bool {
	_, ok := p.cursors[key]
	return ok
}

// Remove 丢弃单个会话的游标
func (p *Paginator) Remove(key string) {
	delete(p.cursors, key)
}

// Reset 丢弃全部游标
func (p *Paginator) Reset() {
	p.cursors = make(map[string]*Cursor)
}

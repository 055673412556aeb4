package history

import "testing"

func strp(s string) *string { return &s }

// 从未拉取 → 有更早页 → 已拉到头 的完整生命周期
func TestPaginatorLifecycle(t *testing.T) {
	p := NewPaginator()
	const key = "general"

	// 未拉过首屏前不允许向后翻页
	if _, ok := p.BeginOlder(key); ok {
		t.Fatal("BeginOlder allowed before initial fetch")
	}

	p.BeginInitial(key)
	if !p.Loading(key) {
		t.Fatal("not loading after BeginInitial")
	}
	// 在途期间拒绝并发翻页
	if _, ok := p.BeginOlder(key); ok {
		t.Fatal("BeginOlder allowed while a page is in flight")
	}

	p.CompletePage(key, strp("cursor-2"))
	if p.Loading(key) || !p.HasMore(key) {
		t.Fatalf("loading=%v hasMore=%v after first page", p.Loading(key), p.HasMore(key))
	}

	next, ok := p.BeginOlder(key)
	if !ok || next != "cursor-2" {
		t.Fatalf("BeginOlder = (%q, %v), want (cursor-2, true)", next, ok)
	}

	// 末页：next 为 nil，之后翻页恒拒绝
	p.CompletePage(key, nil)
	if p.HasMore(key) {
		t.Fatal("HasMore after final page")
	}
	if _, ok := p.BeginOlder(key); ok {
		t.Fatal("BeginOlder allowed after exhaustion")
	}
}

// 失败不前进游标，重试拿到同一个 next
func TestPaginatorFailRetry(t *testing.T) {
	p := NewPaginator()
	const key = "dm_1_2"

	p.BeginInitial(key)
	p.CompletePage(key, strp("cursor-2"))

	if _, ok := p.BeginOlder(key); !ok {
		t.Fatal("BeginOlder refused")
	}
	p.Fail(key)
	if p.Loading(key) {
		t.Fatal("still loading after Fail")
	}
	next, ok := p.BeginOlder(key)
	if !ok || next != "cursor-2" {
		t.Fatalf("retry got (%q, %v), want (cursor-2, true)", next, ok)
	}
}

// 对未知 key 的翻页探询不产生游标记录
func TestBeginOlderDoesNotCreateCursor(t *testing.T) {
	p := NewPaginator()
	if _, ok := p.BeginOlder("ghost"); ok {
		t.Fatal("BeginOlder allowed on unknown key")
	}
	if p.Known("ghost") {
		t.Fatal("reject path created cursor state")
	}
}

func TestPaginatorRemove(t *testing.T) {
	p := NewPaginator()
	p.BeginInitial("general")
	p.CompletePage("general", strp("c"))
	if !p.Known("general") {
		t.Fatal("cursor not recorded")
	}
	p.Remove("general")
	if p.Known("general") || p.HasMore("general") {
		t.Fatal("remove left cursor state")
	}
}

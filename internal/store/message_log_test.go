package store

import (
	"testing"
	"time"

	"kama_chat_client/internal/model"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func msg(id int64, senderID int64, offsetSec int) model.Message {
	return model.Message{
		ID:        id,
		Sender:    model.UserRef{ID: senderID, Username: "u"},
		Content:   "hello",
		Type:      "text",
		Timestamp: base.Add(time.Duration(offsetSec) * time.Second),
	}
}

// 同一条消息重复到达（推送与历史页各送一次）结果不变
func TestMergeIdempotent(t *testing.T) {
	l := NewMessageLog()
	m := msg(1, 2, 0)
	l.MergePush("general", m)
	l.MergePush("general", m)
	l.MergePage("general", []model.Message{m})
	if got := l.Len("general"); got != 1 {
		t.Fatalf("len = %d, want 1", got)
	}
}

// 历史页（newest-first）前插到已有消息之前，整体保持时间正序
func TestMergePageOrdering(t *testing.T) {
	l := NewMessageLog()
	l.MergePush("general", msg(10, 2, 100))
	l.MergePush("general", msg(11, 2, 110))

	// 服务端分页按新到旧返回
	l.MergePage("general", []model.Message{msg(5, 2, 50), msg(4, 2, 40), msg(3, 2, 30)})

	got := l.Get("general")
	wantIDs := []int64{3, 4, 5, 10, 11}
	if len(got) != len(wantIDs) {
		t.Fatalf("len = %d, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Fatalf("position %d: id = %d, want %d", i, got[i].ID, id)
		}
	}
}

// 相同时间戳时推送消息排在已有消息之后（到达序即显示序）
func TestMergePushStableOnEqualTimestamp(t *testing.T) {
	l := NewMessageLog()
	l.MergePush("general", msg(1, 2, 0))
	l.MergePush("general", msg(2, 3, 0))
	got := l.Get("general")
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("order = [%d %d], want [1 2]", got[0].ID, got[1].ID)
	}
}

// 历史页归并不回滚本地已有的已读状态
func TestMergePageKeepsLocalReadState(t *testing.T) {
	l := NewMessageLog()
	m := msg(1, 2, 0)
	l.MergePush("dm_1_2", m)
	l.MarkRead("dm_1_2", []int64{1})

	stale := m
	stale.IsRead = false
	l.MergePage("dm_1_2", []model.Message{stale})

	if got := l.Get("dm_1_2"); !got[0].IsRead {
		t.Fatal("page merge rolled back local read state")
	}
}

func TestReplace(t *testing.T) {
	l := NewMessageLog()
	l.MergePush("general", msg(1, 2, 0))
	l.Replace("general", []model.Message{msg(3, 2, 30), msg(2, 2, 20)})
	got := l.Get("general")
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("after replace got %v", got)
	}
}

// 回执标记幂等，未知 id 忽略
func TestMarkRead(t *testing.T) {
	l := NewMessageLog()
	l.MergePush("dm_1_2", msg(1, 2, 0))
	l.MergePush("dm_1_2", msg(2, 2, 1))

	if changed := l.MarkRead("dm_1_2", []int64{1, 999}); changed != 1 {
		t.Fatalf("first mark changed %d, want 1", changed)
	}
	if changed := l.MarkRead("dm_1_2", []int64{1}); changed != 0 {
		t.Fatalf("repeat mark changed %d, want 0", changed)
	}
}

// 只收集对方发来的未读消息
func TestUnreadFrom(t *testing.T) {
	const selfID = int64(1)
	l := NewMessageLog()
	l.MergePush("dm_1_2", msg(10, 2, 0)) // 对方，未读
	l.MergePush("dm_1_2", msg(11, 1, 1)) // 自己发的
	read := msg(12, 2, 2)
	read.IsRead = true
	l.MergePush("dm_1_2", read) // 对方，已读

	ids := l.UnreadFrom("dm_1_2", selfID)
	if len(ids) != 1 || ids[0] != 10 {
		t.Fatalf("unread ids = %v, want [10]", ids)
	}
}

func TestRemoveAndReset(t *testing.T) {
	l := NewMessageLog()
	l.MergePush("a", msg(1, 2, 0))
	l.MergePush("b", msg(2, 2, 0))
	l.Remove("a")
	if l.Len("a") != 0 || l.Len("b") != 1 {
		t.Fatal("remove affected wrong key")
	}
	l.Reset()
	if l.Len("b") != 0 {
		t.Fatal("reset left state behind")
	}
}

package store

import "testing"

func TestUnreadCounters(t *testing.T) {
	u := NewUnreadCounters()
	u.Incr("general")
	u.Incr("general")
	u.Incr("dm_1_2")
	if u.Get("general") != 2 || u.Get("dm_1_2") != 1 {
		t.Fatalf("counts = %v", u.All())
	}

	u.Clear("general")
	if u.Get("general") != 0 {
		t.Fatal("clear did not zero the counter")
	}

	all := u.All()
	if len(all) != 1 || all["dm_1_2"] != 1 {
		t.Fatalf("all = %v", all)
	}

	// 快照是副本，改动不回写
	all["dm_1_2"] = 99
	if u.Get("dm_1_2") != 1 {
		t.Fatal("All returned live map")
	}

	u.Reset()
	if len(u.All()) != 0 {
		t.Fatal("reset left counters behind")
	}
}

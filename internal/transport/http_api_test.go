package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"kama_chat_client/internal/conversation"
	"kama_chat_client/pkg/errorx"
)

func TestFetchPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("receiver_id"); got != "2" {
			t.Errorf("receiver_id = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [
				{"id": 5, "sender": {"id": 2, "username": "bob"}, "message": "later", "message_type": "text", "is_dm": true, "timestamp": "2025-06-01T12:00:05Z"},
				{"id": 4, "sender": {"id": 2, "username": "bob"}, "message": "earlier", "message_type": "text", "is_dm": true, "timestamp": "2025-06-01T12:00:04Z"}
			],
			"next": "http://example.com/api/messages/?conversation_id=dm_1_2&cursor=abc"
		}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/api", "test-token")
	page, err := c.FetchPage(context.Background(), c.InitialPageURL(conversation.DirectUser(2, "bob")))
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Messages) != 2 || page.Messages[0].ID != 5 {
		t.Fatalf("unexpected page: %+v", page.Messages)
	}
	if page.Next == nil {
		t.Fatal("next cursor missing")
	}
}

func TestFetchPageFinalPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [], "next": null}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/api", "test-token")
	page, err := c.FetchPage(context.Background(), c.InitialPageURL(conversation.Room("general")))
	if err != nil {
		t.Fatal(err)
	}
	if page.Next != nil {
		t.Fatal("final page should carry nil next")
	}
}

// 401/403 统一归一为凭证过期错误
func TestAuthRejection(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		c := NewHTTPClient(srv.URL+"/api", "stale-token")
		_, err := c.FetchPage(context.Background(), c.InitialPageURL(conversation.Room("general")))
		if !errorx.IsAuthExpired(err) {
			t.Fatalf("status %d: expected auth expired, got %v", status, err)
		}
		srv.Close()
	}
}

func TestFetchUserChats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user-chats/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"dms": [{"id": 2, "username": "bob"}], "rooms": ["general"]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/api", "test-token")
	chats, err := c.FetchUserChats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(chats.DMs) != 1 || chats.DMs[0].Username != "bob" || len(chats.Rooms) != 1 {
		t.Fatalf("unexpected chats: %+v", chats)
	}
}

func TestSyncReadReceipts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sync_receipts") != "true" {
			t.Errorf("sync_receipts missing, query = %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"read_message_ids": [11, 12]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/api", "test-token")
	ids, err := c.SyncReadReceipts(context.Background(), "dm_1_2")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != 11 {
		t.Fatalf("ids = %v", ids)
	}
}

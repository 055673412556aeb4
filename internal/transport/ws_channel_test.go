package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// 服务端持续推帧而本地已无人消费事件时，Close 后读协程必须退出，
// 不能阻塞在事件投递上泄漏协程和连接
func TestReadPumpExitsWhenEventsNotDrained(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if err := conn.WriteJSON(map[string]string{"type": "chat_message"}); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	wsBase := strings.Replace(srv.URL, "http://", "ws://", 1)
	d := NewWSDialer(wsBase, "test-token")

	events := make(chan Event) // 无缓冲，模拟事件循环已停止消费
	go func() { <-events }()   // 只吃掉建连事件
	ch, err := d.DialConversation(context.Background(), "general", events)
	if err != nil {
		t.Fatal(err)
	}

	// 等读协程阻塞在事件投递上
	time.Sleep(50 * time.Millisecond)
	if err := ch.Close(); err != nil {
		t.Fatal(err)
	}

	select {
	case <-ch.(*wsChannel).pumpDone:
	case <-time.After(2 * time.Second):
		t.Fatal("read pump still running after Close")
	}
}

// 正常消费路径不受 Close 信号影响：帧按序到达
func TestReadPumpDeliversFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for i := 0; i < 3; i++ {
			if err := conn.WriteMessage(websocket.TextMessage, []byte{'0' + byte(i)}); err != nil {
				return
			}
		}
		// 等对端收完再退出
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	wsBase := strings.Replace(srv.URL, "http://", "ws://", 1)
	d := NewWSDialer(wsBase, "test-token")

	events := make(chan Event, 16)
	ch, err := d.DialConversation(context.Background(), "general", events)
	if err != nil {
		t.Fatal(err)
	}
	defer ch.Close()

	if ev := <-events; ev.Kind != EventOpened {
		t.Fatalf("first event kind = %d, want EventOpened", ev.Kind)
	}
	for i := 0; i < 3; i++ {
		select {
		case ev := <-events:
			if ev.Kind != EventFrame || string(ev.Payload) != string('0'+byte(i)) {
				t.Fatalf("frame %d = kind %d payload %q", i, ev.Kind, ev.Payload)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("frame %d not delivered", i)
		}
	}
}

// Package client 实时聊天客户端核心
// client.go
// 核心职责：单事件循环 goroutine 独占全部会话状态，
// 公共操作打包成闭包命令投递进循环执行，读协程与拉取协程只投递事件，
// 从根上消除状态上的数据竞争
package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"kama_chat_client/internal/conversation"
	"kama_chat_client/internal/dto/request"
	"kama_chat_client/internal/history"
	"kama_chat_client/internal/identity"
	"kama_chat_client/internal/model"
	"kama_chat_client/internal/notify"
	"kama_chat_client/internal/store"
	"kama_chat_client/internal/transport"
	"kama_chat_client/pkg/constants"
	"kama_chat_client/pkg/enum/message/message_type_enum"
	"kama_chat_client/pkg/errorx"
)

// convHandle 已打开会话的通道句柄与建连目标
// target 保留建连时的目标信息，出站消息的收件人字段由它决定
type convHandle struct {
	ch     transport.Channel
	target conversation.Target
}

// ChatClient 聊天客户端
// 所有导出方法并发安全；registry/log/unread/pager 等字段
// 只允许事件循环这一个 goroutine 触碰
type ChatClient struct {
	ident    *identity.Identity
	dialer   transport.Dialer
	api      transport.HistoryAPI
	notifier notify.Notifier

	events chan transport.Event
	cmds   chan func()
	done   chan struct{}

	authExpired chan struct{}
	expireOnce  sync.Once
	shutOnce    sync.Once

	// ---- 以下状态仅事件循环内访问 ----
	registry   map[string]*convHandle
	presence   transport.Channel
	log        *store.MessageLog
	unread     *store.UnreadCounters
	pager      *history.Paginator
	active     string
	foreground bool
	online     []model.UserRef
	rooms      []model.RoomStatus
	dms        []model.UserRef
	joined     []string
	torndown   bool
}

// NewChatClient 创建客户端实例
func NewChatClient(ident *identity.Identity, dialer transport.Dialer, api transport.HistoryAPI, notifier notify.Notifier) *ChatClient {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &ChatClient{
		ident:       ident,
		dialer:      dialer,
		api:         api,
		notifier:    notifier,
		events:      make(chan transport.Event, constants.EVENT_QUEUE_SIZE),
		cmds:        make(chan func(), constants.CHANNEL_SIZE),
		done:        make(chan struct{}),
		authExpired: make(chan struct{}),
		registry:    make(map[string]*convHandle),
		log:         store.NewMessageLog(),
		unread:      store.NewUnreadCounters(),
		pager:       history.NewPaginator(),
		foreground:  true,
	}
}

// Start 启动事件循环，建立 presence 通道并拉取初始会话列表
func (c *ChatClient) Start(ctx context.Context) error {
	go c.loop()

	pch, err := c.dialer.DialPresence(ctx, c.events)
	if err != nil {
		if errorx.IsAuthExpired(err) {
			c.escalateAuthExpired()
		}
		return err
	}
	if err := c.invoke(func() { c.presence = pch }); err != nil {
		_ = pch.Close()
		return err
	}

	chats, err := c.api.FetchUserChats(ctx)
	if err != nil {
		if errorx.IsAuthExpired(err) {
			c.escalateAuthExpired()
			return err
		}
		// 会话列表拉不到不阻塞启动，侧边栏为空而已
		zap.L().Warn("初始会话列表拉取失败", zap.Error(err))
		return nil
	}
	return c.invoke(func() {
		c.dms = chats.DMs
		sort.Slice(c.dms, func(i, j int) bool { return c.dms[i].Username < c.dms[j].Username })
		c.joined = chats.Rooms
		sort.Strings(c.joined)
	})
}

// loop 事件循环主体
func (c *ChatClient) loop() {
	for {
		select {
		case <-c.done:
			return
		case ev := <-c.events:
			c.handleEvent(ev)
		case fn := <-c.cmds:
			fn()
		}
	}
}

// invoke 把闭包投递进事件循环并等待执行完成
func (c *ChatClient) invoke(fn func()) error {
	finished := make(chan struct{})
	select {
	case c.cmds <- func() { fn(); close(finished) }:
	case <-c.done:
		return errorx.New(errorx.CodeInternal, "客户端已停止")
	}
	select {
	case <-finished:
		return nil
	case <-c.done:
		return errorx.New(errorx.CodeInternal, "客户端已停止")
	}
}

// post 异步投递闭包，不等待执行（拉取协程回传结果用）
func (c *ChatClient) post(fn func()) {
	select {
	case c.cmds <- fn:
	case <-c.done:
	}
}

// OpenConversation 打开（或重新激活）一个会话
// 通道未建立时先建连；随后无条件重拉第一页并整体替换本地序列，
// 把断连期间可能漏掉的消息补齐
func (c *ChatClient) OpenConversation(ctx context.Context, target conversation.Target) (string, error) {
	key, err := conversation.KeyFor(target, c.ident.UserID)
	if err != nil {
		return "", err
	}

	var exists, dead bool
	if err := c.invoke(func() {
		if c.torndown {
			dead = true
			return
		}
		_, exists = c.registry[key]
	}); err != nil {
		return "", err
	}
	if dead {
		return "", errorx.ErrAuthExpired
	}

	if !exists {
		ch, err := c.dialer.DialConversation(ctx, key, c.events)
		if err != nil {
			if errorx.IsAuthExpired(err) {
				c.escalateAuthExpired()
			}
			return "", err
		}
		if err := c.invoke(func() {
			if c.torndown {
				_ = ch.Close()
				dead = true
				return
			}
			if _, dup := c.registry[key]; dup {
				// 并发打开同一会话，保留先注册的通道
				_ = ch.Close()
				return
			}
			c.registry[key] = &convHandle{ch: ch, target: target}
			c.addSidebarEntry(target)
		}); err != nil {
			_ = ch.Close()
			return "", err
		}
		if dead {
			return "", errorx.ErrAuthExpired
		}
	}

	err = c.invoke(func() {
		if c.torndown {
			dead = true
			return
		}
		c.active = key
		c.unread.Clear(key)
		c.pager.BeginInitial(key)
		go c.fetchPage(key, c.api.InitialPageURL(target), true)
		go c.syncReceipts(key)
	})
	if err != nil {
		return "", err
	}
	if dead {
		return "", errorx.ErrAuthExpired
	}
	return key, nil
}

// CloseConversation 关闭会话并丢弃其全部本地状态（离开房间/关闭私聊）
// 先把句柄从注册表摘除再关通道：随后读协程投递的关闭事件找不到句柄，
// 不会被误判成异常断连
func (c *ChatClient) CloseConversation(key string) error {
	return c.invoke(func() {
		h, ok := c.registry[key]
		if !ok {
			return
		}
		delete(c.registry, key)
		_ = h.ch.Close()
		c.log.Remove(key)
		c.unread.Remove(key)
		c.pager.Remove(key)
		if c.active == key {
			c.active = ""
		}
		// 离开房间同时从侧边栏摘掉；关闭私聊视图不影响私聊对象列表
		if h.target.Kind() == conversation.KindRoom {
			name := h.target.RoomName()
			for i, r := range c.joined {
				if r == name {
					c.joined = append(c.joined[:i], c.joined[i+1:]...)
					break
				}
			}
		}
	})
}

// addSidebarEntry 新开会话进入侧边栏，保持排序（事件循环内调用）
func (c *ChatClient) addSidebarEntry(target conversation.Target) {
	if target.Kind() == conversation.KindRoom {
		name := target.RoomName()
		for _, r := range c.joined {
			if r == name {
				return
			}
		}
		c.joined = append(c.joined, name)
		sort.Strings(c.joined)
		return
	}
	peer := target.User()
	for _, d := range c.dms {
		if d.ID == peer.ID {
			return
		}
	}
	c.dms = append(c.dms, peer)
	sort.Slice(c.dms, func(i, j int) bool { return c.dms[i].Username < c.dms[j].Username })
}

// SendText 发送文本消息
func (c *ChatClient) SendText(key, text string) error {
	if text == "" {
		return errorx.New(errorx.CodeInvalidParam, "消息内容为空")
	}
	return c.send(key, &text, nil, message_type_enum.Text)
}

// SendImage 发送图片消息（dataURL 形式）
func (c *ChatClient) SendImage(key, dataURL string) error {
	if dataURL == "" {
		return errorx.New(errorx.CodeInvalidParam, "图片内容为空")
	}
	if len(dataURL) > constants.IMAGE_MAX_SIZE {
		return errorx.Newf(errorx.CodeInvalidParam, "图片超过大小上限 %dMB", constants.IMAGE_MAX_SIZE/1024/1024)
	}
	return c.send(key, nil, &dataURL, message_type_enum.Image)
}

func (c *ChatClient) send(key string, text, image *string, msgType string) error {
	var sendErr error
	err := c.invoke(func() {
		if c.torndown {
			sendErr = errorx.ErrAuthExpired
			return
		}
		h, ok := c.registry[key]
		if !ok {
			sendErr = errorx.ErrChannelNotOpen
			return
		}
		req := &request.ChatMessageRequest{
			Type:         request.EventChatMessage,
			Sender:       c.ident.Username,
			Message:      text,
			ImageContent: image,
			MsgType:      msgType,
		}
		if h.target.Kind() == conversation.KindDM {
			receiver := h.target.User().Username
			req.IsDM = true
			req.Receiver = &receiver
		} else {
			room := h.target.RoomName()
			req.RoomName = &room
		}
		sendErr = h.ch.Send(req)
	})
	if err != nil {
		return err
	}
	return sendErr
}

// LoadOlder 向更早方向翻一页
// 已拉到头或有一页在途时静默忽略，调用方可随滚动事件反复触发；
// 从未拉取过的会话退化为一次首屏拉取
func (c *ChatClient) LoadOlder(key string) error {
	return c.invoke(func() {
		if c.torndown {
			return
		}
		if next, ok := c.pager.BeginOlder(key); ok {
			go c.fetchPage(key, next, false)
			return
		}
		if c.pager.Loading(key) || c.pager.Fetched(key) {
			return
		}
		h, ok := c.registry[key]
		if !ok {
			return
		}
		c.pager.BeginInitial(key)
		go c.fetchPage(key, c.api.InitialPageURL(h.target), true)
	})
}

// SetForeground 更新应用前后台状态
// 回到前台且有激活会话时，把积压的未读消息补报已读
func (c *ChatClient) SetForeground(v bool) {
	_ = c.invoke(func() {
		c.foreground = v
		if v && c.active != "" {
			c.ackUnread(c.active)
		}
	})
}

// AuthExpired 凭证过期信号
// 该通道被关闭即表示会话已整体销毁，嵌入方应引导重新登录
func (c *ChatClient) AuthExpired() <-chan struct{} {
	return c.authExpired
}

// Logout 登出：关闭全部通道并清空本地状态
func (c *ChatClient) Logout() error {
	return c.invoke(c.teardown)
}

// Shutdown 登出并停止事件循环，幂等
func (c *ChatClient) Shutdown() {
	_ = c.Logout()
	c.shutOnce.Do(func() { close(c.done) })
}

// fetchPage 在独立协程里拉取一页历史，结果闭包回投事件循环
func (c *ChatClient) fetchPage(key, pageURL string, replace bool) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.FETCH_TIMEOUT_SEC*time.Second)
	defer cancel()
	page, err := c.api.FetchPage(ctx, pageURL)
	c.post(func() {
		if err != nil {
			if errorx.IsAuthExpired(err) {
				c.teardownExpired()
				return
			}
			c.pager.Fail(key)
			zap.L().Error("历史消息拉取失败",
				zap.String("key", key),
				zap.Error(err))
			return
		}
		// 会话在响应返回前被关闭，丢弃迟到的页
		if !c.pager.Known(key) {
			return
		}
		if replace {
			c.log.Replace(key, page.Messages)
		} else {
			c.log.MergePage(key, page.Messages)
		}
		c.pager.CompletePage(key, page.Next)
		if replace && key == c.active && c.foreground {
			c.ackUnread(key)
		}
	})
}

// syncReceipts 补偿拉取自己已发出且对方已读的消息 id
// 覆盖通道断开期间漏掉的回执事件
func (c *ChatClient) syncReceipts(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.FETCH_TIMEOUT_SEC*time.Second)
	defer cancel()
	ids, err := c.api.SyncReadReceipts(ctx, key)
	c.post(func() {
		if err != nil {
			if errorx.IsAuthExpired(err) {
				c.teardownExpired()
				return
			}
			zap.L().Warn("回执补偿拉取失败", zap.String("key", key), zap.Error(err))
			return
		}
		c.log.MarkRead(key, ids)
	})
}

// ackUnread 把会话里对方发来的未读消息一次性批量上报
// 上报成功后本地立即置已读，避免同一批 id 被重复上报
func (c *ChatClient) ackUnread(key string) {
	ids := c.log.UnreadFrom(key, c.ident.UserID)
	if len(ids) == 0 {
		c.unread.Clear(key)
		return
	}
	h, ok := c.registry[key]
	if !ok {
		return
	}
	err := h.ch.Send(&request.MarkReadBatchRequest{
		Type:       request.EventMarkReadBatch,
		MessageIDs: ids,
	})
	if err != nil {
		zap.L().Warn("已读上报失败", zap.String("key", key), zap.Error(err))
		return
	}
	c.log.MarkRead(key, ids)
	c.unread.Clear(key)
}

// teardown 关闭全部通道并清空状态（事件循环内调用）
// 句柄先整体摘除再逐个关闭，关闭触发的事件全部成为无主事件被忽略
func (c *ChatClient) teardown() {
	if c.torndown {
		return
	}
	c.torndown = true

	handles := c.registry
	c.registry = make(map[string]*convHandle)
	pch := c.presence
	c.presence = nil

	for key, h := range handles {
		zap.L().Debug("关闭会话通道", zap.String("key", key))
		_ = h.ch.Close()
	}
	if pch != nil {
		_ = pch.Close()
	}

	c.log.Reset()
	c.unread.Reset()
	c.pager.Reset()
	c.active = ""
	c.online = nil
	c.rooms = nil
	c.dms = nil
	c.joined = nil
}

// teardownExpired 凭证过期触发的销毁（事件循环内调用）
func (c *ChatClient) teardownExpired() {
	c.teardown()
	c.expireOnce.Do(func() {
		zap.L().Warn("登录凭证已过期，会话销毁")
		close(c.authExpired)
	})
}

// escalateAuthExpired 循环外发现凭证过期时的升级入口
func (c *ChatClient) escalateAuthExpired() {
	c.post(c.teardownExpired)
}

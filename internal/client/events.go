// Package client
// events.go
// 核心职责：通道入站事件的分发与处理，
// 消息归属会话一律从消息自身的字段推导，不信任"当前激活会话"
package client

import (
	"encoding/json"

	"go.uber.org/zap"

	"kama_chat_client/internal/conversation"
	"kama_chat_client/internal/dto/respond"
	"kama_chat_client/internal/model"
	"kama_chat_client/internal/transport"
	"kama_chat_client/pkg/enum/message/message_type_enum"
)

// handleEvent 事件循环对通道事件的总入口
func (c *ChatClient) handleEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.EventOpened:
		zap.L().Debug("通道已建立", zap.String("key", ev.Key))
	case transport.EventFrame:
		if c.torndown {
			return
		}
		if ev.Key == "" {
			c.handlePresenceFrame(ev.Payload)
		} else {
			c.handleConversationFrame(ev.Key, ev.Payload)
		}
	case transport.EventClosed:
		c.handleClosed(ev)
	}
}

// handleConversationFrame 会话通道入站帧
func (c *ChatClient) handleConversationFrame(channelKey string, payload []byte) {
	var env respond.EventEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		zap.L().Warn("入站帧解析失败", zap.String("key", channelKey), zap.Error(err))
		return
	}

	switch env.Type {
	case respond.EventChatMessage:
		var msg model.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			zap.L().Warn("消息事件解析失败", zap.String("key", channelKey), zap.Error(err))
			return
		}
		c.handleChatMessage(channelKey, &msg)

	case respond.EventMessagesMarkedAsRead:
		var rr respond.MessagesMarkedAsReadRespond
		if err := json.Unmarshal(payload, &rr); err != nil {
			zap.L().Warn("回执事件解析失败", zap.String("key", channelKey), zap.Error(err))
			return
		}
		key := rr.RoomName
		if key == "" {
			key = channelKey
		}
		c.log.MarkRead(key, rr.MessageIDs)

	default:
		zap.L().Debug("忽略未知事件类型",
			zap.String("key", channelKey),
			zap.String("type", env.Type))
	}
}

// handleChatMessage 实时推送的聊天消息
// 可见会话（激活且应用在前台）立即回报已读；
// 不可见会话累加未读计数并触发提醒
func (c *ChatClient) handleChatMessage(channelKey string, msg *model.Message) {
	key, err := conversation.KeyForMessage(msg)
	if err != nil {
		// 字段残缺时退回到通道自身的会话 key
		key = channelKey
	}

	c.log.MergePush(key, *msg)

	if msg.Sender.ID == c.ident.UserID {
		return // 自己消息的回显，不计未读
	}
	if key == c.active && c.foreground {
		c.ackUnread(key)
		return
	}
	c.unread.Incr(key)
	c.notifier.Notify(key, msg.Sender.Username, preview(msg))
}

// handlePresenceFrame presence 通道入站帧，快照整体替换
func (c *ChatClient) handlePresenceFrame(payload []byte) {
	var env respond.EventEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		zap.L().Warn("presence 帧解析失败", zap.Error(err))
		return
	}

	switch env.Type {
	case respond.EventUserList:
		var ul respond.UserListRespond
		if err := json.Unmarshal(payload, &ul); err != nil {
			zap.L().Warn("在线列表解析失败", zap.Error(err))
			return
		}
		c.online = ul.Users

	case respond.EventDetailedRoomList:
		var rl respond.DetailedRoomListRespond
		if err := json.Unmarshal(payload, &rl); err != nil {
			zap.L().Warn("房间列表解析失败", zap.Error(err))
			return
		}
		c.rooms = rl.Rooms

	default:
		zap.L().Debug("忽略未知 presence 事件", zap.String("type", env.Type))
	}
}

// handleClosed 通道关闭事件
// 注册表里找不到句柄说明是本地主动关闭后的迟到事件，直接忽略
func (c *ChatClient) handleClosed(ev transport.Event) {
	if ev.Key == "" {
		if c.presence != nil {
			zap.L().Warn("presence 通道断开", zap.Error(ev.Err))
			c.presence = nil
			c.online = nil
			c.rooms = nil
		}
		return
	}
	if _, ok := c.registry[ev.Key]; !ok {
		return
	}
	delete(c.registry, ev.Key)
	zap.L().Warn("会话通道异常断开", zap.String("key", ev.Key), zap.Error(ev.Err))
}

// preview 提醒用的内容摘要
func preview(msg *model.Message) string {
	if msg.Type == message_type_enum.Image {
		return "[图片]"
	}
	const max = 50
	runes := []rune(msg.Content)
	if len(runes) > max {
		return string(runes[:max]) + "…"
	}
	return msg.Content
}

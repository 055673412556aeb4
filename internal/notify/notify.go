// Package notify 新消息提醒
// 对应图形端的系统通知：嵌入方可注入自己的 Notifier 实现，
// 默认实现只写结构化日志
package notify

import "go.uber.org/zap"

// Notifier 未读消息提醒接口
// 只在会话不可见（未激活或应用在后台）时触发
type Notifier interface {
	Notify(conversationKey, sender, preview string)
}

// LogNotifier 默认实现，把提醒写进日志
type LogNotifier struct{}

func (LogNotifier) Notify(conversationKey, sender, preview string) {
	zap.L().Info("新消息提醒",
		zap.String("conversation", conversationKey),
		zap.String("sender", sender),
		zap.String("preview", preview))
}

// Discard 关闭提醒时使用的空实现
type Discard struct{}

func (Discard) Notify(string, string, string) {}

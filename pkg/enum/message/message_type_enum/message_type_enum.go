// Package message_type_enum 定义消息内容类型枚举
// 与服务端的 msg_type 字段取值保持一致
package message_type_enum

const (
	Text  = "text"  // 文本消息
	Image = "image" // 图片消息（dataURL 形式的 base64 内容）
)

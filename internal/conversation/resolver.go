package conversation

import (
	"fmt"

	"kama_chat_client/internal/model"
	"kama_chat_client/pkg/errorx"
)

// Key 规范化的会话标识
// 房间会话就是房间名；私聊会话是 dm_{min}_{max}，对称且与参与方无关，
// 双方都能独立推导出同一个 key
type Key = string

// DMKey 根据两个用户 id 推导私聊会话 key
// 只依赖数字 id，不依赖用户名：用户名拼 key 在两对用户的名字集合
// 归一化后相同时会发生碰撞，且和建连用的 key 不一致
func DMKey(a, b int64) Key {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("dm_%d_%d", a, b)
}

// KeyFor 把会话目标解析为会话 key
// 私聊目标的 id 等于本人 id 时返回 ErrSelfChat，不产生任何状态变更
func KeyFor(target Target, selfID int64) (Key, error) {
	switch target.Kind() {
	case KindRoom:
		return target.RoomName(), nil
	case KindDM:
		if target.User().ID == selfID {
			return "", errorx.ErrSelfChat
		}
		return DMKey(selfID, target.User().ID), nil
	}
	return "", errorx.Newf(errorx.CodeInvalidParam, "unknown conversation kind: %s", target.Kind())
}

// KeyForMessage 从入站消息推导其归属的会话 key
// 必须从消息自身的 sender/receiver id 推导，而不是取当前激活会话：
// 入站消息可能属于任何已打开的会话
func KeyForMessage(msg *model.Message) (Key, error) {
	if msg.IsDM {
		if msg.Receiver == nil {
			return "", errorx.New(errorx.CodeInvalidParam, "私聊消息缺少 receiver")
		}
		return DMKey(msg.Sender.ID, msg.Receiver.ID), nil
	}
	if msg.RoomName == "" {
		return "", errorx.New(errorx.CodeInvalidParam, "群聊消息缺少 room_name")
	}
	return msg.RoomName, nil
}

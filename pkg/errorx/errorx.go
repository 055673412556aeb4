package errorx

import (
	"errors"
	"fmt"
)

// CodeError 带业务错误码的自定义错误
// 实现了 error 接口，支持 %w 包装底层错误，且能被 errors.Is/errors.As 识别
type CodeError struct {
	Code  int    // 业务错误码
	Msg   string // 错误消息
	cause error  // 被包装的底层错误
}

// Error 实现 Go 标准 error 接口，使 CodeError 可作为 error 类型使用
// 当存在底层错误时，返回格式为 "消息: 底层错误"；否则仅返回消息
func (e *CodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.cause)
	}
	return e.Msg
}

// Unwrap 实现 errors.Unwrap 接口，支持 errors.Is/errors.As 向下追溯
func (e *CodeError) Unwrap() error {
	return e.cause
}

// Is 按业务错误码比较，使包装后的错误仍能与预定义实例做 errors.Is 判断
func (e *CodeError) Is(target error) bool {
	var codeErr *CodeError
	if errors.As(target, &codeErr) {
		return e.Code == codeErr.Code
	}
	return false
}

// New 创建一个新的 CodeError
func New(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

// Newf 创建一个带格式化消息的 CodeError
func Newf(code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，添加业务错误码和消息
// 用法: errorx.Wrap(err, CodeHistoryFetch, "拉取历史消息失败")
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   msg,
		cause: err,
	}
}

// Wrapf 包装底层错误，支持格式化消息
func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return &CodeError{
		Code:  code,
		Msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// GetCode 从错误中提取业务错误码，如果不是 CodeError 则返回默认码
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeInternal
}

// 业务状态码常量定义
const (
	CodeInvalidParam   = 2001 // 请求参数错误
	CodeAuthExpired    = 2002 // 凭证过期或被服务端拒绝
	CodeChannelNotOpen = 2003 // 会话通道未建立或未就绪
	CodeSelfChat       = 2004 // 不允许和自己私聊
	CodeHistoryFetch   = 2005 // 历史消息分页拉取失败
	CodeChannelClosed  = 2006 // 会话通道非预期关闭
	CodeInternal       = 2010 // 内部错误
)

// 预定义常用错误实例
// 这些实例既可直接返回，也可用于 errors.Is 比较
var (
	ErrInvalidParam   = New(CodeInvalidParam, "请求参数错误")
	ErrAuthExpired    = New(CodeAuthExpired, "登录凭证已过期，请重新登录")
	ErrChannelNotOpen = New(CodeChannelNotOpen, "会话通道未就绪，请稍后重试")
	ErrSelfChat       = New(CodeSelfChat, "不能和自己私聊")
	ErrHistoryFetch   = New(CodeHistoryFetch, "历史消息拉取失败")
	ErrChannelClosed  = New(CodeChannelClosed, "会话通道已断开")
)

// IsAuthExpired 检查错误是否为凭证过期类错误
// 凭证过期是唯一会升级为整个会话销毁的错误类型
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

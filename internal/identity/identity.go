// Package identity 提供当前登录身份的解析
// 客户端不持有服务端的签名密钥，只解码 Token 的 payload 部分，
// 拿到用户 id、用户名和过期时间；签名的真伪由服务端在每次请求时校验
package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"kama_chat_client/pkg/errorx"
)

// Identity 已认证的用户身份描述
type Identity struct {
	UserID   int64  // 用户数字 id，DM 会话 key 的唯一来源
	Username string // 用户名，仅用于展示和出站消息的 sender 字段
	Token    string // 原始 Bearer Token
}

// Claims 服务端签发的 Token 载荷
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// FromToken 从 Bearer Token 解析身份
// Token 过期或载荷缺失关键字段时返回 ErrAuthExpired / ErrInvalidParam
func FromToken(token string) (*Identity, error) {
	if token == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "token 为空")
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	// ParseUnverified: 只解码不验签，验签需要服务端密钥
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeInvalidParam, "token 解析失败")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, errorx.ErrAuthExpired
	}
	if claims.UserID == 0 || claims.Username == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "token 载荷缺少用户信息")
	}

	return &Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		Token:    token,
	}, nil
}

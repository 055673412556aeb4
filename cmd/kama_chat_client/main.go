package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kama_chat_client/internal/client"
	"kama_chat_client/internal/config"
	"kama_chat_client/internal/identity"
	"kama_chat_client/internal/infrastructure/logger"
	"kama_chat_client/internal/notify"
	"kama_chat_client/internal/transport"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化参数校验器并校验配置
	if err := config.InitValidator("zh"); err != nil {
		log.Fatalf("init validator failed: %v", err)
	}
	if err := config.Validate(conf); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// 3. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 4. 解析登录身份
	token := conf.AuthConfig.Token
	if token == "" {
		token = os.Getenv("KAMACHAT_TOKEN")
	}
	ident, err := identity.FromToken(token)
	if err != nil {
		zap.L().Fatal("身份解析失败", zap.Error(err))
	}
	zap.L().Info("身份解析成功",
		zap.Int64("user_id", ident.UserID),
		zap.String("username", ident.Username))

	// 5. 初始化传输层
	dialer := transport.NewWSDialer(conf.WSBaseURL(), ident.Token)
	api := transport.NewHTTPClient(conf.HTTPBaseURL(), ident.Token)

	// 6. 初始化提醒器
	var notifier notify.Notifier = notify.Discard{}
	if conf.NotifyConfig.Enabled {
		notifier = notify.LogNotifier{}
	}

	// 7. 启动客户端
	c := client.NewChatClient(ident, dialer, api, notifier)
	if err := c.Start(context.Background()); err != nil {
		zap.L().Fatal("客户端启动失败", zap.Error(err))
	}
	zap.L().Info("客户端启动成功", zap.String("server", conf.HTTPBaseURL()))

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		zap.L().Info("收到退出信号，关闭客户端...")
	case <-c.AuthExpired():
		zap.L().Warn("登录凭证已过期，请重新登录")
	}

	c.Shutdown()
	zap.L().Info("客户端已关闭")
}

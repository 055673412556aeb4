// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找，并在加载后做结构体校验
package config

import (
	"fmt"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
}

// ServerConfig 聊天服务端的接入地址配置
type ServerConfig struct {
	Host   string `toml:"host" validate:"required"` // 服务端地址，如 "127.0.0.1"
	Port   int    `toml:"port" validate:"required"` // 服务端端口，如 8000
	UseTLS bool   `toml:"useTLS"`                   // 是否使用 https/wss 接入
}

// AuthConfig 凭证配置
// 凭证的获取/刷新是外部流程，这里只消费一个已签发的 Bearer Token
type AuthConfig struct {
	Token string `toml:"token"` // Bearer Token，为空时从环境变量 KAMACHAT_TOKEN 读取
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// NotifyConfig 新消息提醒配置
type NotifyConfig struct {
	Enabled bool `toml:"enabled"` // 是否开启未读消息提醒（对应浏览器端的通知授权）
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig   `toml:"mainConfig"`   // 主配置
	ServerConfig `toml:"serverConfig"` // 服务端接入配置
	AuthConfig   `toml:"authConfig"`   // 凭证配置
	LogConfig    `toml:"logConfig"`    // 日志配置
	NotifyConfig `toml:"notifyConfig"` // 提醒配置
}

// HTTPBaseURL 拼接 REST 接口的基础地址
func (c *Config) HTTPBaseURL() string {
	scheme := "http"
	if c.ServerConfig.UseTLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d/api", scheme, c.ServerConfig.Host, c.ServerConfig.Port)
}

// WSBaseURL 拼接 WebSocket 接口的基础地址
func (c *Config) WSBaseURL() string {
	scheme := "ws"
	if c.ServerConfig.UseTLS {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s:%d/ws", scheme, c.ServerConfig.Host, c.ServerConfig.Port)
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
// 返回值：加载成功返回 nil，否则返回错误
func LoadConfig() error {
	// 候选配置文件路径（优先加载本地配置）
	paths := []string{
		"configs/config_local.toml",       // 本地开发配置（优先）
		"configs/config.toml",             // 默认配置
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",       // 从子目录运行时的路径
	}

	// 依次尝试加载配置文件
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			applyDefaults(config)
			return nil // 加载成功
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// applyDefaults 填充未配置的默认值
func applyDefaults(c *Config) {
	if c.MainConfig.AppName == "" {
		c.MainConfig.AppName = "kama_chat_client"
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig() // 忽略加载错误，使用默认值
		applyDefaults(config)
	}
	return config
}

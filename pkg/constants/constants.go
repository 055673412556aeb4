package constants

const (
	EVENT_QUEUE_SIZE     = 256             // 事件队列大小
	CHANNEL_SIZE         = 100             // 通道缓冲大小
	FETCH_TIMEOUT_SEC    = 10              // 历史消息拉取超时（秒）
	DIAL_TIMEOUT_SEC     = 5               // WebSocket 握手超时（秒）
	DIAL_MAX_RETRIES     = 3               // WebSocket 拨号最大重试次数
	DIAL_BACKOFF_BASE_MS = 500             // 拨号重试退避基数（毫秒），按次翻倍
	IMAGE_MAX_SIZE       = 5 * 1024 * 1024 // 图片消息最大大小（字节）
)

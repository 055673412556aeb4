package respond

// ReadReceiptSyncRespond 已读回执补偿拉取响应
// (GET /messages/?conversation_id=<key>&sync_receipts=true)
// 覆盖会话通道断开期间漏掉的回执事件
type ReadReceiptSyncRespond struct {
	ReadMessageIDs []int64 `json:"read_message_ids"`
}

package protocol

import (
	"encoding/json"

	"github.com/google/go-dap"
)

// 编解码由go-dap完成，引擎不关心wire grammar
// 这里只是一层很薄的封装，保证session拿到的是原始payload字节，
// 方便把进出的消息原样复制一份到诊断日志

// DecodeMessage 把payload解析成DAP消息
// 未知命令会返回*dap.DecodeProtocolMessageFieldError，
// 调用方可以从中取出命令名和seq构造错误响应
func DecodeMessage(payload []byte) (dap.Message, error) {
	return dap.DecodeProtocolMessage(payload)
}

// EncodeMessage 把DAP消息编码成payload
func EncodeMessage(message dap.Message) ([]byte, error) {
	return json.Marshal(message)
}

package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DAP报文帧格式：
// Content-Length: <十进制长度>\r\n
// \r\n
// <长度为Content-Length的payload>
const contentLengthHeader = "Content-Length:"

// FramingError 帧解析错误
// 帧层出错说明和客户端的流已经不同步，会话无法恢复，调用方需要终止会话
type FramingError struct {
	Reason string
	Err    error
}

func (e *FramingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("framing: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("framing: %s", e.Reason)
}

func (e *FramingError) Unwrap() error {
	return e.Err
}

func newFramingError(reason string, err error) *FramingError {
	return &FramingError{Reason: reason, Err: err}
}

// Reader 从字节流中读取帧payload
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadMessage 读取一个完整的帧，返回payload原始字节
// 头部缺失、分隔行缺失、payload不足时返回*FramingError
func (r *Reader) ReadMessage() ([]byte, error) {
	header, err := r.r.ReadString('\n')
	if err != nil {
		return nil, newFramingError("read header", err)
	}
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, contentLengthHeader) {
		return nil, newFramingError(fmt.Sprintf("unexpected header %q", header), nil)
	}
	length, err := strconv.Atoi(strings.TrimSpace(header[len(contentLengthHeader):]))
	if err != nil {
		return nil, newFramingError("parse content length", err)
	}
	if length < 0 {
		return nil, newFramingError(fmt.Sprintf("negative content length %d", length), nil)
	}
	// 头部之后必须有一个空行分隔
	separator, err := r.r.ReadString('\n')
	if err != nil {
		return nil, newFramingError("read separator", err)
	}
	if strings.TrimRight(separator, "\r\n") != "" {
		return nil, newFramingError(fmt.Sprintf("unexpected separator %q", separator), nil)
	}
	payload := make([]byte, length)
	if _, err = io.ReadFull(r.r, payload); err != nil {
		return nil, newFramingError(fmt.Sprintf("read %d byte payload", length), err)
	}
	return payload, nil
}

// Writer 把payload按帧格式写入字节流
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteMessage 写入一个帧并立即flush，保证消息按产生顺序到达客户端
func (w *Writer) WriteMessage(payload []byte) error {
	if _, err := fmt.Fprintf(w.w, "%s %d\r\n\r\n", contentLengthHeader, len(payload)); err != nil {
		return newFramingError("write header", err)
	}
	if _, err := w.w.Write(payload); err != nil {
		return newFramingError("write payload", err)
	}
	if err := w.w.Flush(); err != nil {
		return newFramingError("flush", err)
	}
	return nil
}

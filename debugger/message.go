package debugger

import (
	"github.com/google/go-dap"
	"github.com/sirupsen/logrus"

	"github.com/fansqz/lua-debugger/protocol"
)

// 出站消息的统一出口
// 所有消息在写入客户端之前都会把编码后的payload原样复制一份到诊断日志，
// 日志因此永远是客户端所见内容的超集，用于事后排查失步问题

const errorResponseID = 10001

// send 编码消息、复制到诊断日志、按帧写给客户端
func (s *Session) send(message dap.Message) {
	payload, err := protocol.EncodeMessage(message)
	if err != nil {
		logrus.Errorf("encode message fail, err = %v", err)
		return
	}
	logrus.Debugf("-> %s", payload)
	if err = s.writer.WriteMessage(payload); err != nil {
		logrus.Errorf("write message fail, err = %v", err)
	}
}

func (s *Session) nextSeq() int {
	s.seq++
	return s.seq
}

func (s *Session) newEvent(event string) *dap.Event {
	return &dap.Event{
		ProtocolMessage: dap.ProtocolMessage{
			Seq:  s.nextSeq(),
			Type: "event",
		},
		Event: event,
	}
}

func (s *Session) newResponse(requestSeq int, command string) *dap.Response {
	return &dap.Response{
		ProtocolMessage: dap.ProtocolMessage{
			Seq:  s.nextSeq(),
			Type: "response",
		},
		Command:    command,
		RequestSeq: requestSeq,
		Success:    true,
	}
}

func (s *Session) newErrorResponse(requestSeq int, command string, message string) *dap.ErrorResponse {
	response := &dap.ErrorResponse{}
	response.Response = *s.newResponse(requestSeq, command)
	response.Success = false
	response.Message = message
	response.Body.Error = &dap.ErrorMessage{
		Id:     errorResponseID,
		Format: message,
	}
	return response
}

// sendOutputEvent 把文本包装成output事件转发给客户端
// 处理器诊断、加载失败信息、用户程序的print输出都走这里
func (s *Session) sendOutputEvent(text string) {
	event := &dap.OutputEvent{Event: *s.newEvent("output")}
	event.Body = dap.OutputEventBody{
		Category: "console",
		Output:   text,
	}
	s.send(event)
}

func (s *Session) sendStoppedEvent(reason StoppedReasonType) {
	event := &dap.StoppedEvent{Event: *s.newEvent("stopped")}
	event.Body = dap.StoppedEventBody{
		Reason:            string(reason),
		ThreadId:          luaThreadID,
		AllThreadsStopped: true,
	}
	s.send(event)
}

func (s *Session) sendThreadEvent(started bool) {
	reason := "started"
	if !started {
		reason = "exited"
	}
	event := &dap.ThreadEvent{Event: *s.newEvent("thread")}
	event.Body = dap.ThreadEventBody{
		Reason:   reason,
		ThreadId: luaThreadID,
	}
	s.send(event)
}

func (s *Session) sendTerminatedEvent() {
	s.send(&dap.TerminatedEvent{Event: *s.newEvent("terminated")})
}

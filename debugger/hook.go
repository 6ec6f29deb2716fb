package debugger

import (
	"github.com/sirupsen/logrus"
)

// stopContext 一次暂停的记录，挂在pendingStops栈上
// 栈顶是当前暂停，嵌套暂停解除时从新的栈顶恢复执行上下文
type stopContext struct {
	ctx    ExecContext
	reason StoppedReasonType
}

// onExecEvent 解释器hook入口，运行在解释器的执行线程上
// 行事件意味着即将执行一条新语句，在这里暂停并重入分发循环，
// 直到客户端发step类请求才返回，解释器继续执行
func (s *Session) onExecEvent(event HookEvent, ctx ExecContext) {
	if event != EventLine {
		return
	}
	if s.status.Is(Terminated) {
		return
	}
	if s.pendingStops.Size() >= MaxPendingStops {
		logrus.Warnf("pending stop stack full, size = %d, skip stop", s.pendingStops.Size())
		return
	}
	reason := StepStopped
	if !s.threadEventSent {
		// 首次停在用户代码上，视为entry停止并宣告线程启动
		s.threadEventSent = true
		reason = EntryStopped
		s.sendThreadEvent(true)
	}
	s.suspend(ctx, reason)
}

// suspend 挂起解释器：stop记录压栈、通知客户端、重入分发循环
// 暂停栈是当前自省上下文的唯一事实来源：栈顶始终是正在暂停的那一层，
// 恢复时退栈并把执行上下文切回新的栈顶
// 分发循环正常返回表示客户端请求继续执行；帧层错误无法恢复，直接退出进程
func (s *Session) suspend(ctx ExecContext, reason StoppedReasonType) {
	stop := &stopContext{ctx: ctx, reason: reason}
	s.pendingStops.Push(stop)
	s.execCtx = stop.ctx
	s.sendStoppedEvent(stop.reason)
	s.status.Set(Stopped)
	err := s.dispatchLoop()
	s.pendingStops.Pop()
	s.execCtx = nil
	if top, ok := s.pendingStops.Peek(); ok {
		s.execCtx = top.(*stopContext).ctx
	}
	if err != nil {
		logrus.Errorf("session stream broken while stopped, err = %v", err)
		s.exit(1)
		return
	}
	s.status.Set(Running)
}

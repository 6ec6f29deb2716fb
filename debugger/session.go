package debugger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/google/go-dap"
	"github.com/sirupsen/logrus"

	"github.com/fansqz/lua-debugger/protocol"
)

// Session 调试会话
// 整个会话运行在单个逻辑控制线程上：客户端请求的分发循环和被调试程序的执行
// 通过hook互相让渡控制权，阻塞的帧读取就是对被调试程序的背压机制
type Session struct {
	reader *protocol.Reader
	writer *protocol.Writer
	interp Interpreter

	status *StatusManager
	// threadEventSent thread started事件整个会话只发一次
	threadEventSent bool
	// seq 出站消息的单调递增序列号
	seq int

	// execCtx 当前暂停点的执行上下文，未暂停时为nil
	execCtx ExecContext
	// pendingStops 挂起的stop上下文栈，每嵌套暂停一层压入一个
	pendingStops *arraystack.Stack

	// exit 结束进程，测试中会被替换
	exit func(code int)
}

// launchArguments launch请求的参数，DAP协议中launch参数由适配器自行定义
type launchArguments struct {
	Program string `json:"program"`
}

func NewSession(in io.Reader, out io.Writer, interp Interpreter) *Session {
	return &Session{
		reader:       protocol.NewReader(in),
		writer:       protocol.NewWriter(out),
		interp:       interp,
		status:       NewStatusManager(),
		pendingStops: arraystack.New(),
		exit:         os.Exit,
	}
}

// Status 当前生命周期状态
func (s *Session) Status() Status {
	return s.status.Get()
}

// Run 会话主入口，阻塞到客户端断流或disconnect
// 返回的错误一定是帧层错误，对会话而言是致命的
func (s *Session) Run() error {
	s.interp.SetHook(s.onExecEvent)
	s.interp.SetOutputCallback(func(text string) {
		s.sendOutputEvent(text + "\n")
	})
	return s.dispatchLoop()
}

// dispatchLoop 请求分发循环：读帧 -> 解码 -> 按类型分发 -> 写响应
// 处理器发出resume信号时返回nil，把控制权交还给调用方（launch处理器或hook）
func (s *Session) dispatchLoop() error {
	for {
		payload, err := s.reader.ReadMessage()
		if err != nil {
			return err
		}
		// 入站payload原样复制到诊断日志
		logrus.Debugf("<- %s", payload)
		message, err := protocol.DecodeMessage(payload)
		if err != nil {
			var decodeErr *dap.DecodeProtocolMessageFieldError
			if errors.As(err, &decodeErr) {
				// 未知命令：错误响应中带上命令名
				s.send(s.newErrorResponse(decodeErr.Seq, decodeErr.FieldValue,
					fmt.Sprintf("%s not yet implemented", decodeErr.FieldValue)))
			} else {
				logrus.Warnf("decode request fail, err = %v", err)
			}
			continue
		}
		if resume := s.dispatchRequest(message); resume {
			return nil
		}
	}
}

func (s *Session) dispatchRequest(message dap.Message) (resume bool) {
	switch request := message.(type) {
	case *dap.InitializeRequest:
		s.onInitializeRequest(request)
	case *dap.LaunchRequest:
		s.onLaunchRequest(request)
	case *dap.DisconnectRequest:
		s.onDisconnectRequest(request)
	case *dap.SetExceptionBreakpointsRequest:
		response := &dap.SetExceptionBreakpointsResponse{}
		response.Response = *s.newResponse(request.Seq, request.Command)
		s.send(response)
	case *dap.ConfigurationDoneRequest:
		response := &dap.ConfigurationDoneResponse{}
		response.Response = *s.newResponse(request.Seq, request.Command)
		s.send(response)
	case *dap.ThreadsRequest:
		s.onThreadsRequest(request)
	case *dap.StackTraceRequest:
		s.onStackTraceRequest(request)
	case *dap.ScopesRequest:
		s.onScopesRequest(request)
	case *dap.VariablesRequest:
		s.onVariablesRequest(request)
	case *dap.StepInRequest:
		response := &dap.StepInResponse{}
		response.Response = *s.newResponse(request.Seq, request.Command)
		s.send(response)
		return true
	case *dap.StepOutRequest:
		response := &dap.StepOutResponse{}
		response.Response = *s.newResponse(request.Seq, request.Command)
		s.send(response)
		return true
	case *dap.NextRequest:
		response := &dap.NextResponse{}
		response.Response = *s.newResponse(request.Seq, request.Command)
		s.send(response)
		return true
	default:
		// go-dap认识但本引擎没有实现的命令
		if request, ok := message.(dap.RequestMessage); ok {
			base := request.GetRequest()
			s.send(s.newErrorResponse(base.Seq, base.Command,
				fmt.Sprintf("%s not yet implemented", base.Command)))
		} else {
			logrus.Warnf("unable to process message %#v", message)
		}
	}
	return false
}

// onInitializeRequest 处理initialize
// 先发initialized事件再发响应，客户端收到事件后才开始发配置类请求
func (s *Session) onInitializeRequest(request *dap.InitializeRequest) {
	if !s.status.Is(Birth) {
		s.send(s.newErrorResponse(request.Seq, request.Command, ErrAlreadyInitialized.Error()))
		return
	}
	s.send(&dap.InitializedEvent{Event: *s.newEvent("initialized")})
	response := &dap.InitializeResponse{}
	response.Response = *s.newResponse(request.Seq, request.Command)
	response.Body.SupportsConfigurationDoneRequest = true
	s.send(response)
	s.sendOutputEvent("Debugger initialized\n")
	s.status.Set(Initialized)
}

// onLaunchRequest 处理launch
// 加载成功后在本处理器内同步执行用户程序，期间hook会重入分发循环
func (s *Session) onLaunchRequest(request *dap.LaunchRequest) {
	if !s.status.Is(Initialized) {
		s.send(s.newErrorResponse(request.Seq, request.Command, ErrNotInitialized.Error()))
		return
	}
	args := launchArguments{}
	if len(request.Arguments) > 0 {
		if err := json.Unmarshal(request.Arguments, &args); err != nil {
			s.send(s.newErrorResponse(request.Seq, request.Command,
				fmt.Sprintf("parse launch arguments fail: %v", err)))
			return
		}
	}
	if args.Program == "" {
		s.send(s.newErrorResponse(request.Seq, request.Command, "launch: program not specified"))
		return
	}
	logrus.Infof("launching %s", args.Program)
	if err := s.interp.Load(args.Program); err != nil {
		// 加载失败：先把加载器诊断转成output事件，再回错误响应，状态不变
		s.sendOutputEvent(fmt.Sprintf("Failed to launch %s due to error: %v\n", args.Program, err))
		s.send(s.newErrorResponse(request.Seq, request.Command, "Launch failed"))
		return
	}
	response := &dap.LaunchResponse{}
	response.Response = *s.newResponse(request.Seq, request.Command)
	s.send(response)
	s.status.Set(Running)
	if err := s.interp.Run(); err != nil {
		s.sendOutputEvent("Program terminated with error\n")
		s.sendOutputEvent(err.Error() + "\n")
	}
	s.sendTerminatedEvent()
	s.status.Set(Terminated)
}

// onDisconnectRequest disconnect在任何状态下都合法，回应后立即结束进程
func (s *Session) onDisconnectRequest(request *dap.DisconnectRequest) {
	response := &dap.DisconnectResponse{}
	response.Response = *s.newResponse(request.Seq, request.Command)
	s.send(response)
	logrus.Infof("disconnect requested, exiting")
	s.exit(0)
}

func (s *Session) onThreadsRequest(request *dap.ThreadsRequest) {
	response := &dap.ThreadsResponse{}
	response.Response = *s.newResponse(request.Seq, request.Command)
	response.Body = dap.ThreadsResponseBody{
		Threads: []dap.Thread{{Id: luaThreadID, Name: luaThreadName}},
	}
	s.send(response)
}

func (s *Session) onStackTraceRequest(request *dap.StackTraceRequest) {
	frames := buildStackFrames(s.execCtx, request.Arguments.Levels)
	response := &dap.StackTraceResponse{}
	response.Response = *s.newResponse(request.Seq, request.Command)
	response.Body = dap.StackTraceResponseBody{
		StackFrames: frames,
		TotalFrames: len(frames),
	}
	s.send(response)
}

func (s *Session) onScopesRequest(request *dap.ScopesRequest) {
	scopes, err := buildScopes(s.execCtx, request.Arguments.FrameId)
	if err != nil {
		s.send(s.newErrorResponse(request.Seq, request.Command, err.Error()))
		return
	}
	response := &dap.ScopesResponse{}
	response.Response = *s.newResponse(request.Seq, request.Command)
	response.Body = dap.ScopesResponseBody{Scopes: scopes}
	s.send(response)
}

func (s *Session) onVariablesRequest(request *dap.VariablesRequest) {
	variables, err := collectVariables(s.execCtx, request.Arguments.VariablesReference)
	if err != nil {
		s.send(s.newErrorResponse(request.Seq, request.Command, err.Error()))
		return
	}
	response := &dap.VariablesResponse{}
	response.Response = *s.newResponse(request.Seq, request.Command)
	response.Body = dap.VariablesResponseBody{Variables: variables}
	s.send(response)
}

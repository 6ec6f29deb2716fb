package debugger

// Status 调试会话生命周期状态
type Status string

const (
	// Birth 会话刚创建，还未收到initialize
	Birth Status = "birth"
	// Initialized 已完成initialize握手
	Initialized Status = "initialized"
	// Running 用户程序运行中
	Running Status = "running"
	// Stopped 用户程序暂停，等待客户端命令
	Stopped Status = "stopped"
	// Terminated 用户程序已结束，终态，之后hook与请求不再改变会话行为
	Terminated Status = "terminated"
)

// StoppedReasonType 程序停止原因
type StoppedReasonType string

const (
	// EntryStopped 本次会话第一次停下
	EntryStopped StoppedReasonType = "entry"
	// StepStopped 单步动作完成后停下
	StepStopped StoppedReasonType = "step"
)

// ScopeName 作用域显示名称，DAP客户端直接展示
type ScopeName string

const (
	ScopeLocals   ScopeName = "Locals"
	ScopeUpValues ScopeName = "Up Values"
	ScopeGlobals  ScopeName = "Globals"
)

const (
	// MaxStackFrames 单次stackTrace最多返回的栈帧数量
	MaxStackFrames = 64
	// MaxVariables 单个作用域最多返回的变量数量
	MaxVariables = 256
	// MaxPendingStops 嵌套stop上下文的上限，超过后不再暂停，避免控制栈无界增长
	MaxPendingStops = 128
)

// 调试会话里只有一个Lua线程
const (
	luaThreadID   = 1
	luaThreadName = "Lua Thread"
)

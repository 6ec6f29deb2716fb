package debugger

// 被调试解释器的接入契约
// 引擎不依赖具体解释器实现，只消费这里定义的hook与自省接口，
// 具体绑定见debugger/luavm

// HookEvent 执行钩子事件类型
type HookEvent string

const (
	// EventLine 执行到了新的一行
	EventLine HookEvent = "line"
	// EventCall 进入了一个函数
	EventCall HookEvent = "call"
	// EventReturn 从一个函数返回
	EventReturn HookEvent = "return"
)

// HookFunc 解释器在行/调用/返回边界同步调用的回调
// ctx只在回调执行期间有效，回调返回后不允许继续持有
type HookFunc func(event HookEvent, ctx ExecContext)

// FrameInfo 单个栈帧的信息
type FrameInfo struct {
	// Source 源标识，文件来源约定带"@"前缀（沿用Lua的chunk name约定）
	Source string
	// Line 当前执行行
	Line int
	// Function 函数名，匿名函数为空串
	Function string
}

// ExecContext 暂停期间的执行上下文，深度0表示最内层（当前执行中）的栈帧
type ExecContext interface {
	// Depth 当前调用栈深度
	Depth() int
	// FrameInfo 指定深度的栈帧信息，栈帧不存在时ok为false
	FrameInfo(depth int) (*FrameInfo, bool)
	// LocalName 指定栈帧中第slot个局部变量的名称，slot从1开始
	LocalName(depth int, slot int) (string, bool)
	// UpvalueCount 指定栈帧函数捕获的upvalue数量
	UpvalueCount(depth int) int
	// UpvalueName 指定栈帧函数第index个upvalue的名称，index从1开始
	UpvalueName(depth int, index int) (string, bool)
	// GlobalNames 全局命名空间中的所有变量名
	GlobalNames() []string
}

// Interpreter 被调试解释器
type Interpreter interface {
	// Load 加载用户程序，失败时返回加载器的诊断信息
	Load(program string) error
	// Run 同步执行已加载的程序直到结束，未捕获的运行时错误通过返回值给出
	// 执行期间会在每个边界同步调用已注册的hook
	Run() error
	// SetHook 注册执行钩子，必须在Run之前调用
	SetHook(hook HookFunc)
	// SetOutputCallback 注册用户程序输出回调（print重定向）
	SetOutputCallback(callback func(text string))
}

package debugger

import "errors"

var (
	// ErrAlreadyInitialized initialize只允许执行一次
	ErrAlreadyInitialized = errors.New("already initialized")
	// ErrNotInitialized launch之前必须先initialize
	ErrNotInitialized = errors.New("not initialized or unexpected state")
	// ErrNoStackFrame 请求的栈帧不存在或程序未暂停
	ErrNoStackFrame = errors.New("Error retrieving stack frame")
	// ErrNoVariables 变量引用对应的栈帧不存在或引用非法
	ErrNoVariables = errors.New("Error retrieving variables")
	// ErrBadReference 变量引用不在任何已知区间内
	ErrBadReference = errors.New("invalid variables reference")
)

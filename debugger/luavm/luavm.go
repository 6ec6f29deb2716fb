package luavm

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/fansqz/lua-debugger/debugger"
)

// LuaInterpreter 基于gopher-lua的被调试解释器
// gopher-lua没有暴露原生调试钩子，这里在Load阶段对AST插桩，
// 把钩子调用编译进字节码，Run阶段通过保留全局函数回调进引擎
type LuaInterpreter struct {
	proto  *lua.FunctionProto
	hook   debugger.HookFunc
	output func(text string)
}

func NewLuaInterpreter() *LuaInterpreter {
	return &LuaInterpreter{}
}

// Load 读取、解析、插桩并编译用户程序
// chunk name沿用Lua的"@文件路径"约定，栈回溯里能看到完整路径
func (i *LuaInterpreter) Load(program string) error {
	source, err := os.ReadFile(program)
	if err != nil {
		return err
	}
	chunkName := "@" + program
	chunk, err := parse.Parse(bytes.NewReader(source), chunkName)
	if err != nil {
		return err
	}
	chunk = instrumentChunk(chunk)
	proto, err := lua.Compile(chunk, chunkName)
	if err != nil {
		return err
	}
	i.proto = proto
	return nil
}

// Run 在全新的LState中执行已加载的程序
// 状态不跨Run复用，launch失败后的重试不受上一次执行影响
func (i *LuaInterpreter) Run() error {
	if i.proto == nil {
		return errors.New("no program loaded")
	}
	L := lua.NewState()
	defer L.Close()
	i.installHook(L)
	i.redirectPrint(L)
	L.Push(L.NewFunctionFromProto(i.proto))
	return L.PCall(0, lua.MultRet, nil)
}

func (i *LuaInterpreter) SetHook(hook debugger.HookFunc) {
	i.hook = hook
}

func (i *LuaInterpreter) SetOutputCallback(callback func(text string)) {
	i.output = callback
}

// installHook 注册插桩代码调用的保留全局函数
// Go侧回调在解释器自己的调用栈上同步执行，回调里自省Lua栈是安全的
func (i *LuaInterpreter) installHook(L *lua.LState) {
	L.SetGlobal(hookGlobalName, L.NewFunction(func(L *lua.LState) int {
		if i.hook == nil {
			return 0
		}
		event := debugger.HookEvent(L.CheckString(1))
		i.hook(event, newLuaContext(L))
		return 0
	}))
}

// redirectPrint 把print重定向到输出回调，未设置回调时落到标准输出
func (i *LuaInterpreter) redirectPrint(L *lua.LState) {
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for n := 1; n <= top; n++ {
			parts = append(parts, L.ToStringMeta(L.Get(n)).String())
		}
		text := strings.Join(parts, "\t")
		if i.output != nil {
			i.output(text)
		} else {
			fmt.Println(text)
		}
		return 0
	}))
}

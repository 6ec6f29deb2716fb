package luavm

import (
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/fansqz/lua-debugger/debugger"
)

// luaContext 暂停期间对gopher-lua调用栈的自省视图
// 钩子的Go跳板函数自身占据level 0，base用来跳过它，
// 引擎看到的深度0就是触发钩子的那个Lua栈帧
type luaContext struct {
	L    *lua.LState
	base int
}

func newLuaContext(L *lua.LState) *luaContext {
	return &luaContext{L: L, base: 1}
}

func (c *luaContext) Depth() int {
	depth := 0
	for {
		if _, ok := c.L.GetStack(c.base + depth); !ok {
			return depth
		}
		depth++
	}
}

func (c *luaContext) FrameInfo(depth int) (*debugger.FrameInfo, bool) {
	dbg, ok := c.L.GetStack(c.base + depth)
	if !ok {
		return nil, false
	}
	fn, err := c.L.GetInfo("f", dbg, lua.LNil)
	if err != nil {
		return nil, false
	}
	if isGoFunction(fn) {
		// Go实现的函数没有源码位置
		return &debugger.FrameInfo{Source: "=[Go]", Line: -1}, true
	}
	if _, err = c.L.GetInfo("Sln", dbg, lua.LNil); err != nil {
		return nil, false
	}
	return &debugger.FrameInfo{
		Source:   dbg.Source,
		Line:     dbg.CurrentLine,
		Function: dbg.Name,
	}, true
}

func (c *luaContext) LocalName(depth int, slot int) (string, bool) {
	dbg, ok := c.L.GetStack(c.base + depth)
	if !ok {
		return "", false
	}
	name, _ := c.L.GetLocal(dbg, slot)
	if name == "" {
		return "", false
	}
	return name, true
}

func (c *luaContext) UpvalueCount(depth int) int {
	dbg, ok := c.L.GetStack(c.base + depth)
	if !ok {
		return 0
	}
	if _, err := c.L.GetInfo("u", dbg, lua.LNil); err != nil {
		return 0
	}
	return dbg.NUpvalues
}

func (c *luaContext) UpvalueName(depth int, index int) (string, bool) {
	dbg, ok := c.L.GetStack(c.base + depth)
	if !ok {
		return "", false
	}
	fnValue, err := c.L.GetInfo("f", dbg, lua.LNil)
	if err != nil {
		return "", false
	}
	fn, ok := fnValue.(*lua.LFunction)
	if !ok || fn.IsG {
		return "", false
	}
	name, _ := c.L.GetUpvalue(fn, index)
	if name == "" {
		return "", false
	}
	return name, true
}

// GlobalNames 全局表里的所有字符串键，排序后返回
// 保留全局钩子函数对客户端不可见
func (c *luaContext) GlobalNames() []string {
	globals, ok := c.L.Get(lua.GlobalsIndex).(*lua.LTable)
	if !ok {
		return nil
	}
	names := make([]string, 0, 32)
	globals.ForEach(func(key lua.LValue, _ lua.LValue) {
		name, ok := key.(lua.LString)
		if !ok {
			return
		}
		if string(name) == hookGlobalName {
			return
		}
		names = append(names, string(name))
	})
	sort.Strings(names)
	return names
}

func isGoFunction(value lua.LValue) bool {
	fn, ok := value.(*lua.LFunction)
	return ok && fn.IsG
}

package debugger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeContext 脚本化的执行上下文，供引擎测试使用
// frames[0]是最内层栈帧，locals与upvalues按深度索引
type fakeContext struct {
	frames   []FrameInfo
	locals   map[int][]string
	upvalues map[int][]string
	globals  []string
}

func (c *fakeContext) Depth() int {
	return len(c.frames)
}

func (c *fakeContext) FrameInfo(depth int) (*FrameInfo, bool) {
	if depth < 0 || depth >= len(c.frames) {
		return nil, false
	}
	return &c.frames[depth], true
}

func (c *fakeContext) LocalName(depth int, slot int) (string, bool) {
	names := c.locals[depth]
	if slot < 1 || slot > len(names) {
		return "", false
	}
	return names[slot-1], true
}

func (c *fakeContext) UpvalueCount(depth int) int {
	return len(c.upvalues[depth])
}

func (c *fakeContext) UpvalueName(depth int, index int) (string, bool) {
	names := c.upvalues[depth]
	if index < 1 || index > len(names) {
		return "", false
	}
	return names[index-1], true
}

func (c *fakeContext) GlobalNames() []string {
	return c.globals
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		frames: []FrameInfo{
			{Source: "@/work/main.lua", Line: 12, Function: "inner"},
			{Source: "@/work/main.lua", Line: 4, Function: ""},
		},
		locals: map[int][]string{
			0: {"a", "b", "(for generator)", "c"},
			1: {"x"},
		},
		upvalues: map[int][]string{
			0: {"counter"},
		},
		globals: []string{"g1", "g2", "print"},
	}
}

// TestBuildStackFrames 测试栈帧列表构建
func TestBuildStackFrames(t *testing.T) {
	ctx := newFakeContext()
	frames := buildStackFrames(ctx, 20)
	assert.Equal(t, 2, len(frames))

	assert.Equal(t, 0, frames[0].Id)
	assert.Equal(t, "inner", frames[0].Name)
	assert.Equal(t, 12, frames[0].Line)
	assert.Equal(t, "main.lua", frames[0].Source.Name)
	assert.Equal(t, "/work/main.lua", frames[0].Source.Path)

	// 匿名函数名用"?"占位
	assert.Equal(t, 1, frames[1].Id)
	assert.Equal(t, "?", frames[1].Name)
	assert.Equal(t, 4, frames[1].Line)
}

// TestBuildStackFramesLimits levels截断返回帧数，levels为0时返回空
func TestBuildStackFramesLimits(t *testing.T) {
	ctx := newFakeContext()
	assert.Equal(t, 1, len(buildStackFrames(ctx, 1)))
	assert.Equal(t, 0, len(buildStackFrames(ctx, 0)))
}

// TestBuildStackFramesCap 调用栈深于MaxStackFrames时截断到上限
func TestBuildStackFramesCap(t *testing.T) {
	frames := make([]FrameInfo, MaxStackFrames+8)
	for i := range frames {
		frames[i] = FrameInfo{Source: "@/work/deep.lua", Line: i + 1, Function: "f"}
	}
	ctx := &fakeContext{frames: frames}

	got := buildStackFrames(ctx, MaxStackFrames+100)
	assert.Equal(t, MaxStackFrames, len(got))
	assert.Equal(t, 0, got[0].Id)
	assert.Equal(t, MaxStackFrames-1, got[len(got)-1].Id)

	// levels比上限小时以levels为准
	assert.Equal(t, 3, len(buildStackFrames(ctx, 3)))
}

// TestBuildStackFramesNoContext 未暂停时返回空列表而不是错误
func TestBuildStackFramesNoContext(t *testing.T) {
	frames := buildStackFrames(nil, 20)
	assert.NotNil(t, frames)
	assert.Equal(t, 0, len(frames))
}

// TestBuildScopes 测试作用域列表构建
func TestBuildScopes(t *testing.T) {
	ctx := newFakeContext()

	// 深度0的函数捕获了upvalue，三个作用域都在
	scopes, err := buildScopes(ctx, 0)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(scopes))
	assert.Equal(t, "Locals", scopes[0].Name)
	assert.Equal(t, 1000000, scopes[0].VariablesReference)
	assert.Equal(t, "Up Values", scopes[1].Name)
	assert.Equal(t, 2000000, scopes[1].VariablesReference)
	assert.Equal(t, "Globals", scopes[2].Name)
	assert.Equal(t, 3000000, scopes[2].VariablesReference)
	assert.True(t, scopes[2].Expensive)

	// 深度1没有upvalue，跳过Up Values作用域
	scopes, err = buildScopes(ctx, 1)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(scopes))
	assert.Equal(t, "Locals", scopes[0].Name)
	assert.Equal(t, 1000001, scopes[0].VariablesReference)
	assert.Equal(t, "Globals", scopes[1].Name)
}

// TestBuildScopesErrors 栈帧不存在或未暂停时返回错误
func TestBuildScopesErrors(t *testing.T) {
	_, err := buildScopes(nil, 0)
	assert.Equal(t, ErrNoStackFrame, err)

	_, err = buildScopes(newFakeContext(), 5)
	assert.Equal(t, ErrNoStackFrame, err)
}

// TestCollectLocals 局部变量收集，编译器内部临时变量被过滤
func TestCollectLocals(t *testing.T) {
	ctx := newFakeContext()
	variables, err := collectVariables(ctx, 1000000)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(variables))
	assert.Equal(t, "a", variables[0].Name)
	assert.Equal(t, "b", variables[1].Name)
	assert.Equal(t, "c", variables[2].Name)
}

// TestCollectUpvalues upvalue收集
func TestCollectUpvalues(t *testing.T) {
	ctx := newFakeContext()
	variables, err := collectVariables(ctx, 2000000)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(variables))
	assert.Equal(t, "counter", variables[0].Name)

	// 深度1没有upvalue，返回空列表
	variables, err = collectVariables(ctx, 2000001)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(variables))
}

// TestCollectGlobals 全局变量收集，不依赖具体栈帧深度
func TestCollectGlobals(t *testing.T) {
	ctx := newFakeContext()
	variables, err := collectVariables(ctx, 3000001)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(variables))
	assert.Equal(t, "g1", variables[0].Name)
	assert.Equal(t, "print", variables[2].Name)
}

// TestCollectVariablesCaps 三类变量列表都截断到MaxVariables
// 局部变量走到槽位MaxVariables为止（含），正好收集MaxVariables个名字
func TestCollectVariablesCaps(t *testing.T) {
	names := make([]string, MaxVariables+10)
	for i := range names {
		names[i] = fmt.Sprintf("v%03d", i)
	}
	ctx := &fakeContext{
		frames:   []FrameInfo{{Source: "@/work/big.lua", Line: 1, Function: "huge"}},
		locals:   map[int][]string{0: names},
		upvalues: map[int][]string{0: names},
		globals:  names,
	}

	locals, err := collectVariables(ctx, 1000000)
	assert.Nil(t, err)
	assert.Equal(t, MaxVariables, len(locals))
	assert.Equal(t, "v000", locals[0].Name)
	assert.Equal(t, fmt.Sprintf("v%03d", MaxVariables-1), locals[MaxVariables-1].Name)

	upvalues, err := collectVariables(ctx, 2000000)
	assert.Nil(t, err)
	assert.Equal(t, MaxVariables, len(upvalues))

	globals, err := collectVariables(ctx, 3000000)
	assert.Nil(t, err)
	assert.Equal(t, MaxVariables, len(globals))
}

// TestCollectVariablesErrors 引用非法或栈帧不存在时返回错误
func TestCollectVariablesErrors(t *testing.T) {
	ctx := newFakeContext()

	_, err := collectVariables(ctx, 42)
	assert.Equal(t, ErrNoVariables, err)

	_, err = collectVariables(ctx, 1000005)
	assert.Equal(t, ErrNoVariables, err)

	_, err = collectVariables(nil, 1000000)
	assert.Equal(t, ErrNoVariables, err)
}

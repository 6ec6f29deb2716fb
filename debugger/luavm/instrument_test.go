package luavm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestInstrumentNumberFor for循环体每次迭代都有行事件
func TestInstrumentNumberFor(t *testing.T) {
	h := newLuaTestHelper(t)
	source := "local total = 0\n" +
		"for i = 1, 3 do\n" +
		"\ttotal = total + i\n" +
		"end\n"
	err := h.runScript(source)
	assert.Nil(t, err)
	assert.Equal(t, []int{1, 2, 3, 3, 3}, h.lines())
}

// TestInstrumentWhile while循环体被插桩
func TestInstrumentWhile(t *testing.T) {
	h := newLuaTestHelper(t)
	source := "local n = 2\n" +
		"while n > 0 do\n" +
		"\tn = n - 1\n" +
		"end\n"
	err := h.runScript(source)
	assert.Nil(t, err)
	assert.Equal(t, []int{1, 2, 3, 3}, h.lines())
}

// TestInstrumentIfElse 只有被执行的分支触发行事件
func TestInstrumentIfElse(t *testing.T) {
	h := newLuaTestHelper(t)
	source := "local x = 5\n" +
		"if x > 3 then\n" +
		"\tx = 1\n" +
		"else\n" +
		"\tx = 2\n" +
		"end\n"
	err := h.runScript(source)
	assert.Nil(t, err)
	assert.Equal(t, []int{1, 2, 3}, h.lines())
}

// TestInstrumentRepeat repeat循环体被插桩
func TestInstrumentRepeat(t *testing.T) {
	h := newLuaTestHelper(t)
	source := "local n = 0\n" +
		"repeat\n" +
		"\tn = n + 1\n" +
		"until n >= 2\n"
	err := h.runScript(source)
	assert.Nil(t, err)
	assert.Equal(t, []int{1, 2, 3, 3}, h.lines())
}

// TestInstrumentNestedFunctionExpr 表达式里的函数字面量也被插桩
func TestInstrumentNestedFunctionExpr(t *testing.T) {
	h := newLuaTestHelper(t)
	source := "local apply = function(x)\n" +
		"\treturn x * 2\n" +
		"end\n" +
		"local v = apply(3)\n"
	err := h.runScript(source)
	assert.Nil(t, err)
	assert.Equal(t, []int{1, 4, 2}, h.lines())
}

// TestInstrumentDoBlock do块内的语句被插桩
func TestInstrumentDoBlock(t *testing.T) {
	h := newLuaTestHelper(t)
	source := "local a = 1\n" +
		"do\n" +
		"\ta = 2\n" +
		"end\n"
	err := h.runScript(source)
	assert.Nil(t, err)
	assert.Equal(t, []int{1, 2, 3}, h.lines())
}

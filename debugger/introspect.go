package debugger

import (
	"path"
	"strings"

	"github.com/google/go-dap"
)

// 栈帧、作用域、变量列表的构建
// 变量值的解析是预留的扩展点：Variable只携带名称，Value为空串

// buildStackFrames 从深度0开始逐层遍历栈帧
// 返回的帧数 = min(实际调用深度, levels, MaxStackFrames)，深度0是最内层栈帧
func buildStackFrames(ctx ExecContext, levels int) []dap.StackFrame {
	frames := make([]dap.StackFrame, 0, 8)
	if ctx == nil {
		return frames
	}
	for depth := 0; depth < levels && depth < MaxStackFrames; depth++ {
		info, ok := ctx.FrameInfo(depth)
		if !ok {
			break
		}
		name, fullPath := splitSource(info.Source)
		function := info.Function
		if function == "" {
			function = "?"
		}
		frames = append(frames, dap.StackFrame{
			Id:   depth,
			Name: function,
			Line: info.Line,
			Source: &dap.Source{
				Name: name,
				Path: fullPath,
			},
		})
	}
	return frames
}

// splitSource 把源标识拆成(短名, 完整路径)
// 文件来源的chunk name带"@"前缀，沿用Lua的约定
func splitSource(source string) (string, string) {
	p := strings.TrimPrefix(source, "@")
	return path.Base(p), p
}

// buildScopes 构建指定栈帧的作用域列表
// Locals恒定存在；Up Values只在该帧函数捕获了变量时出现；
// Globals恒定存在且标记为expensive，因为枚举它意味着遍历整个全局命名空间
func buildScopes(ctx ExecContext, depth int) ([]dap.Scope, error) {
	if ctx == nil {
		return nil, ErrNoStackFrame
	}
	if _, ok := ctx.FrameInfo(depth); !ok {
		return nil, ErrNoStackFrame
	}
	scopes := make([]dap.Scope, 0, 3)
	for _, category := range []ScopeCategory{CategoryLocals, CategoryUpValues, CategoryGlobals} {
		if category == CategoryUpValues && ctx.UpvalueCount(depth) == 0 {
			continue
		}
		reference, err := EncodeReference(category, depth)
		if err != nil {
			return nil, ErrNoStackFrame
		}
		scopes = append(scopes, dap.Scope{
			Name:               string(ScopeNameOf(category)),
			VariablesReference: reference,
			Expensive:          category == CategoryGlobals,
		})
	}
	return scopes, nil
}

// collectVariables 按variablesReference收集变量名列表
func collectVariables(ctx ExecContext, reference int) ([]dap.Variable, error) {
	category, depth, err := DecodeReference(reference)
	if err != nil {
		return nil, ErrNoVariables
	}
	if ctx == nil {
		return nil, ErrNoVariables
	}
	switch category {
	case CategoryLocals:
		return collectLocals(ctx, depth)
	case CategoryUpValues:
		return collectUpvalues(ctx, depth)
	default:
		return collectGlobals(ctx), nil
	}
}

// collectLocals 从槽位1开始逐个询问局部变量名，遇到第一个空槽位停止
func collectLocals(ctx ExecContext, depth int) ([]dap.Variable, error) {
	if _, ok := ctx.FrameInfo(depth); !ok {
		return nil, ErrNoVariables
	}
	variables := make([]dap.Variable, 0, 8)
	for slot := 1; slot <= MaxVariables; slot++ {
		name, ok := ctx.LocalName(depth, slot)
		if !ok {
			break
		}
		if strings.HasPrefix(name, "(") {
			// 编译器内部临时变量，如"(for generator)"，跳过但不中断遍历
			continue
		}
		variables = append(variables, dap.Variable{Name: name})
	}
	return variables, nil
}

// collectUpvalues 与collectLocals结构对称，索引从1开始
func collectUpvalues(ctx ExecContext, depth int) ([]dap.Variable, error) {
	if _, ok := ctx.FrameInfo(depth); !ok {
		return nil, ErrNoVariables
	}
	variables := make([]dap.Variable, 0, 4)
	for index := 1; index <= MaxVariables; index++ {
		name, ok := ctx.UpvalueName(depth, index)
		if !ok {
			break
		}
		variables = append(variables, dap.Variable{Name: name})
	}
	return variables, nil
}

func collectGlobals(ctx ExecContext) []dap.Variable {
	names := ctx.GlobalNames()
	if len(names) > MaxVariables {
		names = names[:MaxVariables]
	}
	variables := make([]dap.Variable, 0, len(names))
	for _, name := range names {
		variables = append(variables, dap.Variable{Name: name})
	}
	return variables
}

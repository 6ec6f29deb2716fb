package luavm

import (
	"strconv"

	"github.com/yuin/gopher-lua/ast"
)

// AST插桩
// 编译前给每条语句前面插入一个对保留全局函数的调用，行号沿用原语句，
// 单步信息和栈回溯因此与源码一致。改写不引入新的局部变量，
// 局部变量槽位不受影响

const hookGlobalName = "__debugger_hook__"

// instrumentChunk 改写主chunk
func instrumentChunk(chunk []ast.Stmt) []ast.Stmt {
	return instrumentStmts(chunk)
}

// instrumentStmts 在每条语句前插入行事件，return语句前额外插入返回事件
func instrumentStmts(stmts []ast.Stmt) []ast.Stmt {
	result := make([]ast.Stmt, 0, len(stmts)*2)
	for _, stmt := range stmts {
		result = append(result, newHookStmt("line", stmt.Line()))
		instrumentStmt(stmt)
		if _, ok := stmt.(*ast.ReturnStmt); ok {
			result = append(result, newHookStmt("return", stmt.Line()))
		}
		result = append(result, stmt)
	}
	return result
}

// instrumentStmt 递归处理语句的嵌套块与嵌套函数
func instrumentStmt(stmt ast.Stmt) {
	switch st := stmt.(type) {
	case *ast.IfStmt:
		walkExpr(st.Condition)
		st.Then = instrumentStmts(st.Then)
		st.Else = instrumentStmts(st.Else)
	case *ast.WhileStmt:
		walkExpr(st.Condition)
		st.Stmts = instrumentStmts(st.Stmts)
	case *ast.RepeatStmt:
		st.Stmts = instrumentStmts(st.Stmts)
		walkExpr(st.Condition)
	case *ast.DoBlockStmt:
		st.Stmts = instrumentStmts(st.Stmts)
	case *ast.NumberForStmt:
		walkExpr(st.Init)
		walkExpr(st.Limit)
		if st.Step != nil {
			walkExpr(st.Step)
		}
		st.Stmts = instrumentStmts(st.Stmts)
	case *ast.GenericForStmt:
		walkExprs(st.Exprs)
		st.Stmts = instrumentStmts(st.Stmts)
	case *ast.LocalAssignStmt:
		walkExprs(st.Exprs)
	case *ast.AssignStmt:
		walkExprs(st.Lhs)
		walkExprs(st.Rhs)
	case *ast.FuncCallStmt:
		walkExpr(st.Expr)
	case *ast.ReturnStmt:
		walkExprs(st.Exprs)
	case *ast.FuncDefStmt:
		instrumentFunction(st.Func)
	}
}

// instrumentFunction 改写函数体：入口插入调用事件，
// 没有以return结尾的函数在体末尾补一个返回事件
func instrumentFunction(fn *ast.FunctionExpr) {
	original := fn.Stmts
	body := instrumentStmts(original)
	entryLine := fn.Line()
	if len(original) > 0 {
		entryLine = original[0].Line()
	}
	result := make([]ast.Stmt, 0, len(body)+2)
	result = append(result, newHookStmt("call", entryLine))
	result = append(result, body...)
	if !endsWithReturn(original) {
		result = append(result, newHookStmt("return", fn.LastLine()))
	}
	fn.Stmts = result
}

func endsWithReturn(stmts []ast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	_, ok := stmts[len(stmts)-1].(*ast.ReturnStmt)
	return ok
}

func walkExprs(exprs []ast.Expr) {
	for _, expr := range exprs {
		walkExpr(expr)
	}
}

// walkExpr 在表达式里寻找嵌套的函数字面量并插桩
func walkExpr(expr ast.Expr) {
	switch ex := expr.(type) {
	case *ast.FunctionExpr:
		instrumentFunction(ex)
	case *ast.FuncCallExpr:
		if ex.Func != nil {
			walkExpr(ex.Func)
		}
		if ex.Receiver != nil {
			walkExpr(ex.Receiver)
		}
		walkExprs(ex.Args)
	case *ast.AttrGetExpr:
		walkExpr(ex.Object)
		walkExpr(ex.Key)
	case *ast.TableExpr:
		for _, field := range ex.Fields {
			if field.Key != nil {
				walkExpr(field.Key)
			}
			walkExpr(field.Value)
		}
	case *ast.LogicalOpExpr:
		walkExpr(ex.Lhs)
		walkExpr(ex.Rhs)
	case *ast.RelationalOpExpr:
		walkExpr(ex.Lhs)
		walkExpr(ex.Rhs)
	case *ast.StringConcatOpExpr:
		walkExpr(ex.Lhs)
		walkExpr(ex.Rhs)
	case *ast.ArithmeticOpExpr:
		walkExpr(ex.Lhs)
		walkExpr(ex.Rhs)
	case *ast.UnaryMinusOpExpr:
		walkExpr(ex.Expr)
	case *ast.UnaryNotOpExpr:
		walkExpr(ex.Expr)
	case *ast.UnaryLenOpExpr:
		walkExpr(ex.Expr)
	}
}

// newHookStmt 构造一条钩子调用语句，位置信息全部指向原语句所在行
func newHookStmt(event string, line int) ast.Stmt {
	ident := &ast.IdentExpr{Value: hookGlobalName}
	setPosition(ident, line)
	eventArg := &ast.StringExpr{Value: event}
	setPosition(eventArg, line)
	lineArg := &ast.NumberExpr{Value: strconv.Itoa(line)}
	setPosition(lineArg, line)
	call := &ast.FuncCallExpr{
		Func: ident,
		Args: []ast.Expr{eventArg, lineArg},
	}
	setPosition(call, line)
	stmt := &ast.FuncCallStmt{Expr: call}
	setPosition(stmt, line)
	return stmt
}

func setPosition(node ast.PositionHolder, line int) {
	node.SetLine(line)
	node.SetLastLine(line)
}

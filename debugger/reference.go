package debugger

import "fmt"

// variablesReference编码方案：
// reference = categoryBase + frameDepth
// Locals从1000000开始，Up Values从2000000开始，Globals从3000000开始
// frameDepth必须小于1000000，三个区间互不重叠，按区间归属解码没有歧义

// ScopeCategory 作用域类别
type ScopeCategory int

const (
	CategoryLocals ScopeCategory = iota + 1
	CategoryUpValues
	CategoryGlobals
)

const (
	categoryBase = 1000000
	// MaxFrameDepth 可编码的最大栈帧深度
	MaxFrameDepth = categoryBase - 1
)

// ScopeNameOf 类别对应的作用域显示名称
func ScopeNameOf(category ScopeCategory) ScopeName {
	switch category {
	case CategoryUpValues:
		return ScopeUpValues
	case CategoryGlobals:
		return ScopeGlobals
	default:
		return ScopeLocals
	}
}

// EncodeReference 把(类别, 栈帧深度)编码成variablesReference
func EncodeReference(category ScopeCategory, depth int) (int, error) {
	if depth < 0 || depth > MaxFrameDepth {
		return 0, fmt.Errorf("frame depth %d out of range [0, %d]", depth, MaxFrameDepth)
	}
	if category < CategoryLocals || category > CategoryGlobals {
		return 0, fmt.Errorf("unknown scope category %d", category)
	}
	return int(category)*categoryBase + depth, nil
}

// DecodeReference 按区间归属把variablesReference还原成(类别, 栈帧深度)
func DecodeReference(reference int) (ScopeCategory, int, error) {
	category := ScopeCategory(reference / categoryBase)
	if category < CategoryLocals || category > CategoryGlobals {
		return 0, 0, ErrBadReference
	}
	return category, reference % categoryBase, nil
}

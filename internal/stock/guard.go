// Package stock 提供购物车与结算共用的库存校验规则，
// 两条路径必须使用同一判定，避免规则悄悄分叉。
package stock

import "errors"

var (
	// ErrNonPositiveQuantity 请求数量必须为正整数
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
	// ErrExceedsStock 请求数量超过当前库存
	ErrExceedsStock = errors.New("quantity exceeds available stock")
)

// Check 纯函数校验：requested 必须为正且不超过 available。
// 无任何 I/O 与副作用。
func Check(requested, available int64) error {
	if requested <= 0 {
		return ErrNonPositiveQuantity
	}
	if requested > available {
		return ErrExceedsStock
	}
	return nil
}

package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	cases := []struct {
		name      string
		requested int64
		available int64
		want      error
	}{
		{"正常购买", 1, 10, nil},
		{"恰好买空", 10, 10, nil},
		{"超出一件", 11, 10, ErrExceedsStock},
		{"零库存", 1, 0, ErrExceedsStock},
		{"数量为零", 0, 10, ErrNonPositiveQuantity},
		{"数量为负", -3, 10, ErrNonPositiveQuantity},
		{"负库存也按超卖拒绝", 1, -1, ErrExceedsStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, Check(tc.requested, tc.available), tc.want)
		})
	}
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/order"
)

type fakeOrderRepo struct {
	orders map[int64]*order.Order
	items  map[int64][]*order.ItemView
}

func (f *fakeOrderRepo) GetForUser(ctx context.Context, userID, orderID int64) (*order.Order, error) {
	o, ok := f.orders[orderID]
	// 所有权进谓词：不属于当前用户等同不存在
	if !ok || o.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListItems(ctx context.Context, orderID int64) ([]*order.ItemView, error) {
	return f.items[orderID], nil
}

func TestGetForUser_OwnershipDoesNotLeak(t *testing.T) {
	repo := &fakeOrderRepo{
		orders: map[int64]*order.Order{
			10: {ID: 10, UserID: 1, TotalCents: 3000, Status: order.StatusPaid},
		},
		items: map[int64][]*order.ItemView{
			10: {{ProductID: 1, Name: "Whey", Qty: 3, UnitPriceCents: 1000}},
		},
	}
	svc := NewOrderService(repo)
	ctx := context.Background()

	detail, err := svc.GetForUser(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3000, detail.Order.TotalCents)
	require.Len(t, detail.Items, 1)
	assert.EqualValues(t, 3000, detail.Items[0].LineTotalCents())

	// 他人订单与不存在的订单返回同一个错误
	_, err = svc.GetForUser(ctx, 2, 10)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = svc.GetForUser(ctx, 1, 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

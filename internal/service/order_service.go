package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/order"
)

// ErrOrderNotFound 订单不存在或不属于当前用户
var ErrOrderNotFound = errors.New("order not found")

// OrderService 订单历史查询，写入只发生在结算事务内
type OrderService struct {
	repo order.Repository
}

// NewOrderService 创建订单服务
func NewOrderService(repo order.Repository) *OrderService {
	return &OrderService{repo: repo}
}

// ListForUser 按创建时间倒序返回用户订单
func (s *OrderService) ListForUser(ctx context.Context, userID int64, limit int) ([]*order.Order, error) {
	return s.repo.ListForUser(ctx, userID, limit)
}

// OrderDetail 订单及其行明细
type OrderDetail struct {
	Order *order.Order
	Items []*order.ItemView
}

// GetForUser 返回订单详情，所有权不符同样按不存在处理
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID int64) (*OrderDetail, error) {
	o, err := s.repo.GetForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: o, Items: items}, nil
}

package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/order"
)

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储（读路径，订单写入只发生在结算事务内）
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepo{db: db}
}

// GetForUser 所有权进查询谓词：查不到和不属于当前用户一律 ErrRecordNotFound，
// 避免向调用方泄露他人订单是否存在
func (r *orderRepo) GetForUser(ctx context.Context, userID, orderID int64) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]*order.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	var list []*order.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) ListItems(ctx context.Context, orderID int64) ([]*order.ItemView, error) {
	var list []*order.ItemView
	err := r.db.WithContext(ctx).
		Table("order_items oi").
		Select("oi.product_id, oi.qty, oi.unit_price_cents, p.name, p.image_url").
		Joins("JOIN products p ON p.id = oi.product_id").
		Where("oi.order_id = ?", orderID).
		Order("oi.id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

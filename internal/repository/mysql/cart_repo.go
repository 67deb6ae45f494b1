package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/cart"
)

type cartRepo struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepo{db: db}
}

func (r *cartRepo) GetLine(ctx context.Context, userID, productID int64) (*cart.Line, error) {
	var line cart.Line
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *cartRepo) ListByUser(ctx context.Context, userID int64) ([]*cart.Line, error) {
	var list []*cart.Line
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *cartRepo) ViewByUser(ctx context.Context, userID int64) ([]*cart.ItemView, error) {
	var list []*cart.ItemView
	err := r.db.WithContext(ctx).
		Table("cart_lines ci").
		Select(`ci.product_id, ci.qty,
p.name, p.price_cents, p.stock, p.image_url, p.description,
c.name AS category_name, c.color AS category_color`).
		Joins("JOIN products p ON p.id = ci.product_id").
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Where("ci.user_id = ?", userID).
		Order("ci.created_at DESC, ci.id DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Save 按 (user_id, product_id) 幂等落行：冲突时只更新数量
func (r *cartRepo) Save(ctx context.Context, line *cart.Line) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"qty", "updated_at"}),
	}).Create(line).Error
}

func (r *cartRepo) DeleteLine(ctx context.Context, userID, productID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&cart.Line{}).Error
}

func (r *cartRepo) ClearUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&cart.Line{}).Error
}

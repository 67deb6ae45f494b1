package cart

import (
	"context"
	"time"
)

// Line 购物车行：每个 (user_id, product_id) 唯一，qty 始终为正
type Line struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"uniqueIndex:idx_cart_user_product;not null"`
	ProductID int64     `gorm:"uniqueIndex:idx_cart_user_product;index;not null"`
	Qty       int64     `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemView 购物车行与商品/分类展示数据的联查结果
type ItemView struct {
	ProductID     int64
	Qty           int64
	Name          string
	PriceCents    int64
	Stock         int64
	ImageURL      string
	Description   string
	CategoryName  *string
	CategoryColor *string
}

// LineTotalCents 行小计
func (v ItemView) LineTotalCents() int64 {
	return v.PriceCents * v.Qty
}

// Repository 购物车仓储接口
type Repository interface {
	GetLine(ctx context.Context, userID, productID int64) (*Line, error)
	ListByUser(ctx context.Context, userID int64) ([]*Line, error)
	// ViewByUser 联查商品与分类展示数据，按加入时间倒序
	ViewByUser(ctx context.Context, userID int64) ([]*ItemView, error)
	Save(ctx context.Context, line *Line) error
	DeleteLine(ctx context.Context, userID, productID int64) error
	ClearUser(ctx context.Context, userID int64) error
}

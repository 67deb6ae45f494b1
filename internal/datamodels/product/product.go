package product

import (
	"context"
	"time"
)

// Product 商品模型，价格单位为分
type Product struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"size:128;not null"`
	Description string    `gorm:"size:1024"`
	PriceCents  int64     `gorm:"not null"` // 分
	Stock       int64     `gorm:"not null"` // 可售库存，永不为负
	CategoryID  *int64    `gorm:"index"`    // 可选分类
	ImageURL    string    `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListFilter 商品列表过滤条件
type ListFilter struct {
	Keyword    string // 名称模糊匹配
	CategoryID *int64
}

// View 商品及分类展示数据（LEFT JOIN categories）
type View struct {
	ID            int64
	Name          string
	PriceCents    int64
	Description   string
	CategoryID    *int64
	CategoryName  *string
	CategoryColor *string
	CreatedAt     time.Time
	Stock         int64
	ImageURL      string
}

// Repository 商品仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetView(ctx context.Context, id int64) (*View, error)
	List(ctx context.Context, f ListFilter) ([]*View, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
}

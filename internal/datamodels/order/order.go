package order

import (
	"context"
	"time"
)

// StatusPaid 模拟支付下唯一可达的订单状态
const StatusPaid = "PAID"

// Order 订单模型，创建后不可变
type Order struct {
	ID         int64     `gorm:"primaryKey"`
	UserID     int64     `gorm:"index;not null"`
	TotalCents int64     `gorm:"not null"` // 下单时快照，之后不再重算
	Status     string    `gorm:"size:16;index;not null"`
	CreatedAt  time.Time `gorm:"index"`
}

// Item 订单行，单价为下单时快照，与商品后续调价无关
type Item struct {
	ID             int64 `gorm:"primaryKey"`
	OrderID        int64 `gorm:"index;not null"`
	ProductID      int64 `gorm:"index;not null"`
	Qty            int64 `gorm:"not null"`
	UnitPriceCents int64 `gorm:"not null"` // 分，购买时快照
	CreatedAt      time.Time
}

// ItemView 订单行与商品展示数据的联查结果（名称/图片读时联查，不落快照）
type ItemView struct {
	ProductID      int64
	Name           string
	ImageURL       string
	Qty            int64
	UnitPriceCents int64
}

// LineTotalCents 行小计
func (v ItemView) LineTotalCents() int64 {
	return v.UnitPriceCents * v.Qty
}

// Repository 订单仓储接口，读路径；写入只发生在结算事务内
type Repository interface {
	// GetForUser 所有权作为查询谓词的一部分，不存在与不属于同样返回 gorm.ErrRecordNotFound
	GetForUser(ctx context.Context, userID, orderID int64) (*Order, error)
	ListForUser(ctx context.Context, userID int64, limit int) ([]*Order, error)
	ListItems(ctx context.Context, orderID int64) ([]*ItemView, error)
}

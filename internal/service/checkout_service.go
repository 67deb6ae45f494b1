package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/cart"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/order"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/product"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/stock"
)

// ErrEmptyCart 空购物车无法结算
var ErrEmptyCart = errors.New("cart is empty")

// InsufficientStockError 结算时复核库存失败，携带第一个不满足的商品
type InsufficientStockError struct {
	ProductID int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for productId=%d", e.ProductID)
}

const orderPaidQueue = "order_paid_queue"

// OrderPaidMessage 结算成功后投递的订单事件
type OrderPaidMessage struct {
	OrderID    int64 `json:"order_id"`
	UserID     int64 `json:"user_id"`
	TotalCents int64 `json:"total_cents"`
}

// CheckoutService 把购物车一次性转成已支付订单：
// 校验库存、按下单时价格落快照、扣减库存、清空购物车，全部在同一事务内完成。
// 支付是确定性模拟，库存足够即成功。
type CheckoutService struct {
	db     *gorm.DB
	mqConn *amqp.Connection // 可为 nil，此时只跳过事件投递
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(db *gorm.DB, mqConn *amqp.Connection) *CheckoutService {
	return &CheckoutService{db: db, mqConn: mqConn}
}

// Checkout 结算当前用户的购物车。
// 失败时（库存不足、空车、存储错误）不产生任何可见写入；
// 成功时订单创建、库存扣减、清空购物车三者一起生效。
func (s *CheckoutService) Checkout(ctx context.Context, userID int64) (*order.Order, error) {
	GetMonitor().RecordCheckoutRequest()

	// 空车直接拒绝，不开事务
	var count int64
	if err := s.db.WithContext(ctx).Model(&cart.Line{}).
		Where("user_id = ?", userID).Count(&count).Error; err != nil {
		GetMonitor().RecordDBError()
		return nil, err
	}
	if count == 0 {
		return nil, ErrEmptyCart
	}

	var result *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []*cart.Line
		if err := tx.Where("user_id = ?", userID).Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			// 与预检查之间被并发清空
			return ErrEmptyCart
		}

		// 固定按商品 ID 顺序加锁，避免两笔结算互相死锁
		sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

		type pricedLine struct {
			productID int64
			qty       int64
			unitPrice int64
		}
		priced := make([]pricedLine, 0, len(lines))
		var totalCents int64

		for _, line := range lines {
			var p product.Product
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&p, line.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 商品已被下架删除，行悬空，跳过不计费
				continue
			}
			if err != nil {
				return err
			}

			// 以事务内读到的库存为准复核
			if err := stock.Check(line.Qty, p.Stock); err != nil {
				return &InsufficientStockError{ProductID: p.ID}
			}

			priced = append(priced, pricedLine{
				productID: p.ID,
				qty:       line.Qty,
				unitPrice: p.PriceCents, // 下单时价格快照
			})
			totalCents += line.Qty * p.PriceCents
		}

		if len(priced) == 0 {
			return ErrEmptyCart
		}

		o := order.Order{
			UserID:     userID,
			TotalCents: totalCents,
			Status:     order.StatusPaid,
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}

		for _, pl := range priced {
			if err := tx.Create(&order.Item{
				OrderID:        o.ID,
				ProductID:      pl.productID,
				Qty:            pl.qty,
				UnitPriceCents: pl.unitPrice,
			}).Error; err != nil {
				return err
			}

			// 条件扣减：stock >= qty 才会命中，RowsAffected 为 0 说明并发已买空。
			// 行锁之外再加这一层，超卖在写入层面就不可能发生。
			res := tx.Model(&product.Product{}).
				Where("id = ? AND stock >= ?", pl.productID, pl.qty).
				UpdateColumn("stock", gorm.Expr("stock - ?", pl.qty))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &InsufficientStockError{ProductID: pl.productID}
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&cart.Line{}).Error; err != nil {
			return err
		}

		result = &o
		return nil
	})
	if err != nil {
		var ise *InsufficientStockError
		if errors.As(err, &ise) {
			GetMonitor().RecordCheckoutConflict()
		} else if !errors.Is(err, ErrEmptyCart) {
			GetMonitor().RecordDBError()
		}
		return nil, err
	}

	GetMonitor().RecordCheckoutSuccess()
	// 事务已提交，事件投递尽力而为，失败只记日志
	s.publishOrderPaid(ctx, result)
	return result, nil
}

func (s *CheckoutService) publishOrderPaid(ctx context.Context, o *order.Order) {
	if s.mqConn == nil {
		return
	}
	ch, err := s.mqConn.Channel()
	if err != nil {
		GetMonitor().RecordMQError()
		zap.L().Warn("open mq channel failed", zap.Error(err))
		return
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(orderPaidQueue, true, false, false, false, nil); err != nil {
		GetMonitor().RecordMQError()
		zap.L().Warn("declare order queue failed", zap.Error(err))
		return
	}

	body, err := json.Marshal(&OrderPaidMessage{
		OrderID:    o.ID,
		UserID:     o.UserID,
		TotalCents: o.TotalCents,
	})
	if err != nil {
		zap.L().Warn("marshal order event failed", zap.Error(err))
		return
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		orderPaidQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		GetMonitor().RecordMQError()
		zap.L().Warn("publish order event failed", zap.Int64("order_id", o.ID), zap.Error(err))
		return
	}
	zap.L().Info("order paid",
		zap.Int64("order_id", o.ID),
		zap.Int64("user_id", o.UserID),
		zap.Int64("total_cents", o.TotalCents))
}

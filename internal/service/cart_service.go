package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/cart"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/product"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/stock"
)

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrLineNotFound 购物车行不存在
	ErrLineNotFound = errors.New("item not in cart")
	// ErrInvalidQuantity 数量非法（非正整数）
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrStockExceeded 数量超过当前库存
	ErrStockExceeded = errors.New("not enough stock")
)

// CartService 维护每个用户的购物车行。
// 这里的库存校验是参考性的（防止日常误操作），
// 结算时还会在事务内做权威复核。
type CartService struct {
	cartRepo    cart.Repository
	productRepo product.Repository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo cart.Repository, productRepo product.Repository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// CartView 购物车视图：行明细加总计
type CartView struct {
	Items      []*cart.ItemView
	TotalCents int64
}

func guardToServiceErr(err error) error {
	switch {
	case errors.Is(err, stock.ErrNonPositiveQuantity):
		return ErrInvalidQuantity
	case errors.Is(err, stock.ErrExceedsStock):
		return ErrStockExceeded
	default:
		return err
	}
}

// AddLine 加购：在已有行数量上累加 qty，累计数量不得超过当前库存。
// 校验失败时不做任何修改。
func (s *CartService) AddLine(ctx context.Context, userID, productID, qty int64) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	var existing int64
	line, err := s.cartRepo.GetLine(ctx, userID, productID)
	switch {
	case err == nil:
		existing = line.Qty
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 首次加购
	default:
		return err
	}

	newQty := existing + qty
	if err := stock.Check(newQty, p.Stock); err != nil {
		return guardToServiceErr(err)
	}

	if line == nil {
		line = &cart.Line{UserID: userID, ProductID: productID}
	}
	line.Qty = newQty
	return s.cartRepo.Save(ctx, line)
}

// SetLineQty 直接设置行数量，行必须已存在
func (s *CartService) SetLineQty(ctx context.Context, userID, productID, qty int64) error {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := stock.Check(qty, p.Stock); err != nil {
		return guardToServiceErr(err)
	}

	line, err := s.cartRepo.GetLine(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineNotFound
		}
		return err
	}

	line.Qty = qty
	return s.cartRepo.Save(ctx, line)
}

// RemoveLine 删除一行，行不存在时也视为成功
func (s *CartService) RemoveLine(ctx context.Context, userID, productID int64) error {
	return s.cartRepo.DeleteLine(ctx, userID, productID)
}

// Clear 清空购物车，幂等
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.cartRepo.ClearUser(ctx, userID)
}

// View 返回购物车明细与总计，只读无副作用
func (s *CartService) View(ctx context.Context, userID int64) (*CartView, error) {
	items, err := s.cartRepo.ViewByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := &CartView{Items: items}
	for _, it := range items {
		view.TotalCents += it.LineTotalCents()
	}
	return view, nil
}

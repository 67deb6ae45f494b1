package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/cart"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/order"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/product"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/repository/mysql"
)

// 结算的事务语义依赖真实 MySQL（行锁 + 条件扣减），
// 没有 MYSQL_DSN 时整组跳过。
func setupCheckoutDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("MYSQL_DSN not set")
	}
	db, err := gorm.Open(gmysql.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Skipf("mysql not available: %v", err)
	}
	require.NoError(t, db.AutoMigrate(
		&product.Product{}, &cart.Line{}, &order.Order{}, &order.Item{},
	))
	return db
}

var userIDSeq = time.Now().UnixNano() % 1_000_000_000

var userIDMu sync.Mutex

func nextUserID() int64 {
	userIDMu.Lock()
	defer userIDMu.Unlock()
	userIDSeq++
	return userIDSeq
}

func createProduct(t *testing.T, db *gorm.DB, name string, priceCents, stockQty int64) *product.Product {
	t.Helper()
	p := &product.Product{Name: name, PriceCents: priceCents, Stock: stockQty}
	require.NoError(t, db.Create(p).Error)
	t.Cleanup(func() {
		db.Where("product_id = ?", p.ID).Delete(&order.Item{})
		db.Where("product_id = ?", p.ID).Delete(&cart.Line{})
		db.Delete(&product.Product{}, p.ID)
	})
	return p
}

func cleanupUser(t *testing.T, db *gorm.DB, userID int64) {
	t.Helper()
	t.Cleanup(func() {
		var ids []int64
		db.Model(&order.Order{}).Where("user_id = ?", userID).Pluck("id", &ids)
		if len(ids) > 0 {
			db.Where("order_id IN ?", ids).Delete(&order.Item{})
		}
		db.Where("user_id = ?", userID).Delete(&order.Order{})
		db.Where("user_id = ?", userID).Delete(&cart.Line{})
	})
}

func currentStock(t *testing.T, db *gorm.DB, productID int64) int64 {
	t.Helper()
	var p product.Product
	require.NoError(t, db.First(&p, productID).Error)
	return p.Stock
}

func TestCheckout_EndToEnd(t *testing.T) {
	db := setupCheckoutDB(t)
	ctx := context.Background()

	p := createProduct(t, db, "e2e-whey", 1000, 5)
	userID := nextUserID()
	cleanupUser(t, db, userID)

	cartSvc := NewCartService(mysql.NewCartRepository(db), mysql.NewProductRepository(db))
	checkoutSvc := NewCheckoutService(db, nil)

	// 加购 3 件
	require.NoError(t, cartSvc.AddLine(ctx, userID, p.ID, 3))

	// 再加 3 件累计超库存，行保持 3
	assert.ErrorIs(t, cartSvc.AddLine(ctx, userID, p.ID, 3), ErrStockExceeded)
	var line cart.Line
	require.NoError(t, db.Where("user_id = ? AND product_id = ?", userID, p.ID).First(&line).Error)
	assert.EqualValues(t, 3, line.Qty)

	// 结算成功：总价 3000，库存降到 2，购物车清空
	o, err := checkoutSvc.Checkout(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, o.Status)
	assert.EqualValues(t, 3000, o.TotalCents)
	assert.EqualValues(t, 2, currentStock(t, db, p.ID))

	var lineCount int64
	require.NoError(t, db.Model(&cart.Line{}).Where("user_id = ?", userID).Count(&lineCount).Error)
	assert.Zero(t, lineCount)

	var items []*order.Item
	require.NoError(t, db.Where("order_id = ?", o.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.EqualValues(t, 3, items[0].Qty)
	assert.EqualValues(t, 1000, items[0].UnitPriceCents)

	// 空车再次结算
	_, err = checkoutSvc.Checkout(ctx, userID)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_PriceSnapshot(t *testing.T) {
	db := setupCheckoutDB(t)
	ctx := context.Background()

	p := createProduct(t, db, "snapshot-creatine", 3999, 10)
	userID := nextUserID()
	cleanupUser(t, db, userID)

	cartSvc := NewCartService(mysql.NewCartRepository(db), mysql.NewProductRepository(db))
	checkoutSvc := NewCheckoutService(db, nil)

	require.NoError(t, cartSvc.AddLine(ctx, userID, p.ID, 2))
	o, err := checkoutSvc.Checkout(ctx, userID)
	require.NoError(t, err)
	require.EqualValues(t, 7998, o.TotalCents)

	// 改价后订单金额与行单价保持下单时快照
	require.NoError(t, db.Model(&product.Product{}).Where("id = ?", p.ID).
		UpdateColumn("price_cents", 9999).Error)

	var stored order.Order
	require.NoError(t, db.First(&stored, o.ID).Error)
	assert.EqualValues(t, 7998, stored.TotalCents)

	var item order.Item
	require.NoError(t, db.Where("order_id = ?", o.ID).First(&item).Error)
	assert.EqualValues(t, 3999, item.UnitPriceCents)
}

func TestCheckout_FailureIsAtomic(t *testing.T) {
	db := setupCheckoutDB(t)
	ctx := context.Background()

	p := createProduct(t, db, "atomic-preworkout", 4599, 1)
	userID := nextUserID()
	cleanupUser(t, db, userID)

	// 直接落一条超过库存的行，模拟加购之后库存被并发买走
	require.NoError(t, db.Create(&cart.Line{UserID: userID, ProductID: p.ID, Qty: 2}).Error)

	checkoutSvc := NewCheckoutService(db, nil)
	_, err := checkoutSvc.Checkout(ctx, userID)

	var ise *InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, p.ID, ise.ProductID)

	// 购物车原样保留，没有订单产生，库存未动
	var line cart.Line
	require.NoError(t, db.Where("user_id = ? AND product_id = ?", userID, p.ID).First(&line).Error)
	assert.EqualValues(t, 2, line.Qty)

	var orderCount int64
	require.NoError(t, db.Model(&order.Order{}).Where("user_id = ?", userID).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
	assert.EqualValues(t, 1, currentStock(t, db, p.ID))
}

func TestCheckout_ConcurrentSingleUnit(t *testing.T) {
	db := setupCheckoutDB(t)
	ctx := context.Background()

	p := createProduct(t, db, "race-gainer", 8999, 1)
	userA := nextUserID()
	userB := nextUserID()
	cleanupUser(t, db, userA)
	cleanupUser(t, db, userB)

	require.NoError(t, db.Create(&cart.Line{UserID: userA, ProductID: p.ID, Qty: 1}).Error)
	require.NoError(t, db.Create(&cart.Line{UserID: userB, ProductID: p.ID, Qty: 1}).Error)

	checkoutSvc := NewCheckoutService(db, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, uid := range []int64{userA, userB} {
		wg.Add(1)
		go func(i int, uid int64) {
			defer wg.Done()
			_, errs[i] = checkoutSvc.Checkout(ctx, uid)
		}(i, uid)
	}
	wg.Wait()

	// 两人抢一件：恰好一人成功，另一人拿到库存冲突
	var successes, conflicts int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var ise *InsufficientStockError
		if errors.As(err, &ise) {
			conflicts++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.EqualValues(t, 0, currentStock(t, db, p.ID))

	var orderCount int64
	require.NoError(t, db.Model(&order.Order{}).
		Where("user_id IN ?", []int64{userA, userB}).
		Count(&orderCount).Error)
	assert.EqualValues(t, 1, orderCount)
}

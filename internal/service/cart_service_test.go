package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/cart"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/product"
)

// 内存商品仓储，购物车单测用
type fakeProductRepo struct {
	products map[int64]*product.Product
}

func newFakeProductRepo(ps ...*product.Product) *fakeProductRepo {
	m := make(map[int64]*product.Product)
	for _, p := range ps {
		m[p.ID] = p
	}
	return &fakeProductRepo{products: m}
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetView(ctx context.Context, id int64) (*product.View, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) List(ctx context.Context, _ product.ListFilter) ([]*product.View, error) {
	return nil, nil
}

func (f *fakeProductRepo) Create(ctx context.Context, p *product.Product) error { return nil }
func (f *fakeProductRepo) Update(ctx context.Context, p *product.Product) error { return nil }
func (f *fakeProductRepo) Delete(ctx context.Context, id int64) error           { return nil }

// 内存购物车仓储
type fakeCartRepo struct {
	products *fakeProductRepo
	lines    map[string]*cart.Line
}

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{products: products, lines: make(map[string]*cart.Line)}
}

func lineKey(userID, productID int64) string {
	return fmt.Sprintf("%d:%d", userID, productID)
}

func (f *fakeCartRepo) GetLine(ctx context.Context, userID, productID int64) (*cart.Line, error) {
	l, ok := f.lines[lineKey(userID, productID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeCartRepo) ListByUser(ctx context.Context, userID int64) ([]*cart.Line, error) {
	var out []*cart.Line
	for _, l := range f.lines {
		if l.UserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) ViewByUser(ctx context.Context, userID int64) ([]*cart.ItemView, error) {
	var out []*cart.ItemView
	for _, l := range f.lines {
		if l.UserID != userID {
			continue
		}
		p, ok := f.products.products[l.ProductID]
		if !ok {
			continue
		}
		out = append(out, &cart.ItemView{
			ProductID:  l.ProductID,
			Qty:        l.Qty,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Stock:      p.Stock,
			ImageURL:   p.ImageURL,
		})
	}
	return out, nil
}

func (f *fakeCartRepo) Save(ctx context.Context, line *cart.Line) error {
	cp := *line
	f.lines[lineKey(line.UserID, line.ProductID)] = &cp
	return nil
}

func (f *fakeCartRepo) DeleteLine(ctx context.Context, userID, productID int64) error {
	delete(f.lines, lineKey(userID, productID))
	return nil
}

func (f *fakeCartRepo) ClearUser(ctx context.Context, userID int64) error {
	for k, l := range f.lines {
		if l.UserID == userID {
			delete(f.lines, k)
		}
	}
	return nil
}

func newCartFixture(ps ...*product.Product) (*CartService, *fakeCartRepo) {
	productRepo := newFakeProductRepo(ps...)
	cartRepo := newFakeCartRepo(productRepo)
	return NewCartService(cartRepo, productRepo), cartRepo
}

func TestAddLine_CreatesAndAccumulates(t *testing.T) {
	svc, repo := newCartFixture(&product.Product{ID: 1, Name: "Whey", PriceCents: 1000, Stock: 10})
	ctx := context.Background()

	require.NoError(t, svc.AddLine(ctx, 7, 1, 3))
	line, err := repo.GetLine(ctx, 7, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, line.Qty)

	require.NoError(t, svc.AddLine(ctx, 7, 1, 2))
	line, err = repo.GetLine(ctx, 7, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 5, line.Qty)
}

func TestAddLine_StockBoundary(t *testing.T) {
	svc, repo := newCartFixture(&product.Product{ID: 1, Stock: 5})
	ctx := context.Background()

	// 恰好到库存上限可以加
	require.NoError(t, svc.AddLine(ctx, 7, 1, 5))

	// 再加一件越界，且原行保持不变
	err := svc.AddLine(ctx, 7, 1, 1)
	assert.ErrorIs(t, err, ErrStockExceeded)
	line, getErr := repo.GetLine(ctx, 7, 1)
	require.NoError(t, getErr)
	assert.EqualValues(t, 5, line.Qty)
}

func TestAddLine_Errors(t *testing.T) {
	svc, _ := newCartFixture(&product.Product{ID: 1, Stock: 5})
	ctx := context.Background()

	assert.ErrorIs(t, svc.AddLine(ctx, 7, 99, 1), ErrProductNotFound)
	assert.ErrorIs(t, svc.AddLine(ctx, 7, 1, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.AddLine(ctx, 7, 1, -2), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.AddLine(ctx, 7, 1, 6), ErrStockExceeded)
}

func TestSetLineQty(t *testing.T) {
	svc, repo := newCartFixture(&product.Product{ID: 1, Stock: 5})
	ctx := context.Background()

	// 行不存在
	assert.ErrorIs(t, svc.SetLineQty(ctx, 7, 1, 2), ErrLineNotFound)

	require.NoError(t, svc.AddLine(ctx, 7, 1, 1))
	require.NoError(t, svc.SetLineQty(ctx, 7, 1, 4))
	line, err := repo.GetLine(ctx, 7, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 4, line.Qty)

	assert.ErrorIs(t, svc.SetLineQty(ctx, 7, 1, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, svc.SetLineQty(ctx, 7, 1, 6), ErrStockExceeded)
	assert.ErrorIs(t, svc.SetLineQty(ctx, 7, 99, 1), ErrProductNotFound)
}

func TestRemoveLine_Idempotent(t *testing.T) {
	svc, _ := newCartFixture(&product.Product{ID: 1, Stock: 5})
	ctx := context.Background()

	require.NoError(t, svc.AddLine(ctx, 7, 1, 2))
	assert.NoError(t, svc.RemoveLine(ctx, 7, 1))
	// 已删除的行再删一次也不报错
	assert.NoError(t, svc.RemoveLine(ctx, 7, 1))
}

func TestClear_Idempotent(t *testing.T) {
	svc, repo := newCartFixture(
		&product.Product{ID: 1, Stock: 5},
		&product.Product{ID: 2, Stock: 5},
	)
	ctx := context.Background()

	require.NoError(t, svc.AddLine(ctx, 7, 1, 1))
	require.NoError(t, svc.AddLine(ctx, 7, 2, 1))
	require.NoError(t, svc.Clear(ctx, 7))

	lines, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, lines)

	assert.NoError(t, svc.Clear(ctx, 7))
}

func TestView_Totals(t *testing.T) {
	svc, _ := newCartFixture(
		&product.Product{ID: 1, Name: "Whey", PriceCents: 1000, Stock: 10},
		&product.Product{ID: 2, Name: "Shaker", PriceCents: 250, Stock: 10},
	)
	ctx := context.Background()

	require.NoError(t, svc.AddLine(ctx, 7, 1, 3))
	require.NoError(t, svc.AddLine(ctx, 7, 2, 2))

	view, err := svc.View(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.EqualValues(t, 3*1000+2*250, view.TotalCents)

	// 其他用户看不到
	other, err := svc.View(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, other.Items)
	assert.Zero(t, other.TotalCents)
}

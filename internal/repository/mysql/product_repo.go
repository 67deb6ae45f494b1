package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/product"
)

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

const productViewSelect = `
p.id, p.name, p.price_cents, p.description, p.category_id, p.created_at, p.stock, p.image_url,
c.name AS category_name, c.color AS category_color`

func (r *productRepo) GetView(ctx context.Context, id int64) (*product.View, error) {
	var v product.View
	err := r.db.WithContext(ctx).
		Table("products p").
		Select(productViewSelect).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Where("p.id = ?", id).
		Take(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *productRepo) List(ctx context.Context, f product.ListFilter) ([]*product.View, error) {
	query := r.db.WithContext(ctx).
		Table("products p").
		Select(productViewSelect).
		Joins("LEFT JOIN categories c ON c.id = p.category_id")
	if f.Keyword != "" {
		query = query.Where("p.name LIKE ?", "%"+f.Keyword+"%")
	}
	if f.CategoryID != nil {
		query = query.Where("p.category_id = ?", *f.CategoryID)
	}
	var list []*product.View
	if err := query.Order("p.created_at DESC, p.id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) Create(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Update(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&product.Product{}, id).Error
}

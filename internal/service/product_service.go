package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/product"
)

var (
	// ErrInvalidProduct 商品字段校验失败
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidCategory 引用的分类不存在
	ErrInvalidCategory = errors.New("invalid categoryId")
)

// ProductService 商品目录的读接口与后台 CRUD。
// 库存字段只在这里被管理端整体改写，结算扣减走结算事务。
type ProductService struct {
	repo        product.Repository
	categorySvc *CategoryService
}

func NewProductService(repo product.Repository, categorySvc *CategoryService) *ProductService {
	return &ProductService{repo: repo, categorySvc: categorySvc}
}

func (s *ProductService) GetView(ctx context.Context, id int64) (*product.View, error) {
	v, err := s.repo.GetView(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *ProductService) List(ctx context.Context, f product.ListFilter) ([]*product.View, error) {
	return s.repo.List(ctx, f)
}

func (s *ProductService) validate(ctx context.Context, p *product.Product) error {
	if len(p.Name) < 2 || len(p.Name) > 120 {
		return ErrInvalidProduct
	}
	if p.PriceCents < 0 || p.Stock < 0 {
		return ErrInvalidProduct
	}
	if len(p.Description) > 1000 || len(p.ImageURL) > 500 {
		return ErrInvalidProduct
	}
	if p.CategoryID != nil {
		if _, err := s.categorySvc.GetByID(ctx, *p.CategoryID); err != nil {
			if errors.Is(err, ErrCategoryNotFound) {
				return ErrInvalidCategory
			}
			return err
		}
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, p *product.Product) error {
	if err := s.validate(ctx, p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *ProductService) Update(ctx context.Context, p *product.Product) error {
	if err := s.validate(ctx, p); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, p.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

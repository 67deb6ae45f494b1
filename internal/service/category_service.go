package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/category"
)

var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryNameTaken 分类名称必须唯一
	ErrCategoryNameTaken = errors.New("category name must be unique")
	// ErrInvalidCategoryFields 分类字段校验失败
	ErrInvalidCategoryFields = errors.New("invalid category")
)

// CategoryService 分类 CRUD，仅管理端使用；前台只读在售分类
type CategoryService struct {
	repo category.Repository
}

func NewCategoryService(repo category.Repository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) ListAll(ctx context.Context) ([]*category.Category, error) {
	return s.repo.ListAll(ctx)
}

func (s *CategoryService) ListActive(ctx context.Context) ([]*category.Category, error) {
	return s.repo.ListActive(ctx)
}

func validateCategory(c *category.Category) error {
	if len(c.Name) < 2 || len(c.Name) > 60 {
		return ErrInvalidCategoryFields
	}
	if len(c.Type) < 2 || len(c.Type) > 40 {
		return ErrInvalidCategoryFields
	}
	if len(c.Description) > 500 {
		return ErrInvalidCategoryFields
	}
	if len(c.Color) < 4 || len(c.Color) > 20 {
		return ErrInvalidCategoryFields
	}
	return nil
}

func (s *CategoryService) Create(ctx context.Context, c *category.Category) error {
	if err := validateCategory(c); err != nil {
		return err
	}
	if _, err := s.repo.GetByName(ctx, c.Name); err == nil {
		return ErrCategoryNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.repo.Create(ctx, c)
}

func (s *CategoryService) Update(ctx context.Context, c *category.Category) error {
	if err := validateCategory(c); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, c.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	// 改名时仍需保持唯一
	if existing, err := s.repo.GetByName(ctx, c.Name); err == nil && existing.ID != c.ID {
		return ErrCategoryNameTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.repo.Update(ctx, c)
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

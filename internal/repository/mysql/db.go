package mysql

import (
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/config"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/cart"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/category"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/order"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/product"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/user"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init 初始化全局 GORM 实例并自动迁移表结构
func Init(cfg *config.MySQLConfig) *gorm.DB {
	once.Do(func() {
		var err error
		db, err = gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			zap.L().Fatal("failed to connect mysql", zap.Error(err))
		}

		if err = db.AutoMigrate(
			&user.User{},
			&category.Category{},
			&product.Product{},
			&cart.Line{},
			&order.Order{},
			&order.Item{},
		); err != nil {
			zap.L().Fatal("auto migrate failed", zap.Error(err))
		}
	})
	return db
}

// DB 获取全局 DB
func DB() *gorm.DB {
	return db
}

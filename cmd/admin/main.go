package main

import (
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/config"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/logging"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/server"
)

func main() {
	logging.Init(false)

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("load config failed", zap.Error(err))
	}

	app := iris.New()
	server.RegisterAdminRoutes(app, cfg)

	addr := cfg.AdminServer.Addr()
	zap.L().Info("admin server listening", zap.String("addr", addr))
	if err := app.Run(
		iris.Addr(addr),
		iris.WithCharset("UTF-8"),
		iris.WithOptimizations,
		iris.WithoutServerError(iris.ErrServerClosed),
	); err != nil {
		zap.L().Fatal("failed to run admin server", zap.Error(err))
	}
}

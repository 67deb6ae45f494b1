package server

import (
	"errors"
	"fmt"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/service"
)

// writeServiceError 把服务层错误映射到 HTTP 状态码：
// 调用方错误 400，查无 404，破坏不变量 409，其余按存储故障 500。
func writeServiceError(ctx iris.Context, err error) {
	var ise *service.InsufficientStockError
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidCategoryFields):
		ctx.StopWithJSON(400, iris.Map{"message": err.Error()})
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrLineNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrCategoryNotFound):
		ctx.StopWithJSON(404, iris.Map{"message": err.Error()})
	case errors.Is(err, service.ErrStockExceeded),
		errors.Is(err, service.ErrLoginTaken),
		errors.Is(err, service.ErrCategoryNameTaken):
		ctx.StopWithJSON(409, iris.Map{"message": err.Error()})
	case errors.As(err, &ise):
		ctx.StopWithJSON(409, iris.Map{"message": fmt.Sprintf("Not enough stock for productId=%d", ise.ProductID)})
	case errors.Is(err, service.ErrInvalidCredentials):
		ctx.StopWithJSON(401, iris.Map{"message": "Invalid credentials"})
	default:
		zap.L().Error("internal error", zap.String("path", ctx.Path()), zap.Error(err))
		ctx.StopWithJSON(500, iris.Map{"message": "Internal error"})
	}
}

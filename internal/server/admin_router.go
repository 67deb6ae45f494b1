package server

import (
	"strconv"

	"github.com/kataras/iris/v12"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/config"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/category"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/product"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/infra/redis"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/repository/mysql"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/service"
)

type productRequest struct {
	Name        string `json:"name"`
	PriceCents  int64  `json:"priceCents"`
	Description string `json:"description"`
	CategoryID  *int64 `json:"categoryId"`
	Stock       int64  `json:"stock"`
	ImageURL    string `json:"imageUrl"`
}

type categoryRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Color       string `json:"color"`
	IsActive    *bool  `json:"isActive"`
}

func (r *categoryRequest) applyDefaults() {
	if r.Type == "" {
		r.Type = "General"
	}
	if r.Color == "" {
		r.Color = "#3b5bfd"
	}
}

// RegisterAdminRoutes 注册后台管理端路由，端口与前台分离，要求 ADMIN 角色
func RegisterAdminRoutes(app *iris.Application, cfg *config.Config) {
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)

	productRepo := mysql.NewProductRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)

	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categorySvc)

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"ok": true})
	})

	admin := app.Party("/api/admin", newAuthMiddleware(cfg, redisClient), requireAdmin)

	// 运行指标
	admin.Get("/stats", func(ctx iris.Context) {
		ctx.JSON(service.GetMonitor().Snapshot())
	})

	// ---------------- 商品 CRUD ----------------

	admin.Get("/products", func(ctx iris.Context) {
		f := product.ListFilter{Keyword: ctx.URLParam("q")}
		if raw := ctx.URLParam("categoryId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				ctx.StopWithJSON(400, iris.Map{"message": "Invalid categoryId"})
				return
			}
			f.CategoryID = &id
		}
		list, err := productSvc.List(ctx.Request().Context(), f)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		out := make([]iris.Map, 0, len(list))
		for _, v := range list {
			out = append(out, productViewJSON(v))
		}
		ctx.JSON(out)
	})

	admin.Get("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		v, err := productSvc.GetView(ctx.Request().Context(), id)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(productViewJSON(v))
	})

	admin.Post("/products", func(ctx iris.Context) {
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"message": "Invalid body"})
			return
		}
		p := product.Product{
			Name:        req.Name,
			PriceCents:  req.PriceCents,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
		}
		if err := productSvc.Create(ctx.Request().Context(), &p); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"id": p.ID})
	})

	admin.Put("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req productRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"message": "Invalid body"})
			return
		}
		p := product.Product{
			ID:          id,
			Name:        req.Name,
			PriceCents:  req.PriceCents,
			Description: req.Description,
			CategoryID:  req.CategoryID,
			Stock:       req.Stock,
			ImageURL:    req.ImageURL,
		}
		if err := productSvc.Update(ctx.Request().Context(), &p); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"id": id})
	})

	admin.Delete("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := productSvc.Delete(ctx.Request().Context(), id); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(204)
	})

	// ---------------- 分类 CRUD ----------------

	categoryJSON := func(c *category.Category) iris.Map {
		return iris.Map{
			"id": c.ID, "name": c.Name, "type": c.Type,
			"description": c.Description, "color": c.Color,
			"isActive": c.IsActive, "createdAt": c.CreatedAt,
		}
	}

	admin.Get("/categories", func(ctx iris.Context) {
		list, err := categorySvc.ListAll(ctx.Request().Context())
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		out := make([]iris.Map, 0, len(list))
		for _, c := range list {
			out = append(out, categoryJSON(c))
		}
		ctx.JSON(out)
	})

	admin.Get("/categories/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		c, err := categorySvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(categoryJSON(c))
	})

	admin.Post("/categories", func(ctx iris.Context) {
		var req categoryRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"message": "Invalid body"})
			return
		}
		req.applyDefaults()
		c := category.Category{
			Name:        req.Name,
			Type:        req.Type,
			Description: req.Description,
			Color:       req.Color,
			IsActive:    req.IsActive == nil || *req.IsActive,
		}
		if err := categorySvc.Create(ctx.Request().Context(), &c); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"id": c.ID})
	})

	admin.Put("/categories/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req categoryRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"message": "Invalid body"})
			return
		}
		req.applyDefaults()
		c := category.Category{
			ID:          id,
			Name:        req.Name,
			Type:        req.Type,
			Description: req.Description,
			Color:       req.Color,
			IsActive:    req.IsActive == nil || *req.IsActive,
		}
		if err := categorySvc.Update(ctx.Request().Context(), &c); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"id": id})
	})

	admin.Delete("/categories/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := categorySvc.Delete(ctx.Request().Context(), id); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(204)
	})
}

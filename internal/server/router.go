package server

import (
	"strconv"

	"github.com/kataras/iris/v12"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/config"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/cart"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/order"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/product"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/infra/mq"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/infra/redis"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/middleware"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/repository/mysql"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/service"
)

func productViewJSON(v *product.View) iris.Map {
	return iris.Map{
		"id":            v.ID,
		"name":          v.Name,
		"priceCents":    v.PriceCents,
		"description":   v.Description,
		"categoryId":    v.CategoryID,
		"categoryName":  v.CategoryName,
		"categoryColor": v.CategoryColor,
		"createdAt":     v.CreatedAt,
		"stock":         v.Stock,
		"imageUrl":      v.ImageURL,
	}
}

func cartItemJSON(it *cart.ItemView) iris.Map {
	return iris.Map{
		"productId":      it.ProductID,
		"qty":            it.Qty,
		"name":           it.Name,
		"priceCents":     it.PriceCents,
		"stock":          it.Stock,
		"imageUrl":       it.ImageURL,
		"description":    it.Description,
		"categoryName":   it.CategoryName,
		"categoryColor":  it.CategoryColor,
		"lineTotalCents": it.LineTotalCents(),
	}
}

func orderJSON(o *order.Order) iris.Map {
	return iris.Map{
		"id":         o.ID,
		"totalCents": o.TotalCents,
		"status":     o.Status,
		"createdAt":  o.CreatedAt,
	}
}

// RegisterRoutes 注册前台 HTTP 路由：注册登录、公共目录、购物车、结算、订单
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.InitOptional(&cfg.RabbitMQ)

	// 仓储与服务
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	userSvc := service.NewUserService(userRepo, &cfg.JWT)
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categorySvc)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	checkoutSvc := service.NewCheckoutService(db, mqConn)
	orderSvc := service.NewOrderService(orderRepo)

	// 健康检查
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"ok": true})
	})

	api := app.Party("/api")
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"ok": true})
	})

	// 用户注册/登录
	api.Post("/register", func(ctx iris.Context) {
		var req struct {
			Login    string `json:"login"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"message": "Invalid body"})
			return
		}
		if len(req.Login) < 3 || len(req.Login) > 32 || len(req.Password) < 8 || len(req.Password) > 128 {
			ctx.StopWithJSON(400, iris.Map{"message": "Login min 3 chars, password min 8 chars"})
			return
		}
		u, err := userSvc.Register(ctx.Request().Context(), req.Login, req.Password)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"id": u.ID, "login": u.Login})
	})

	api.Post("/login", func(ctx iris.Context) {
		var req struct {
			Login    string `json:"login"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"message": "Invalid body"})
			return
		}
		token, u, err := userSvc.Login(ctx.Request().Context(), req.Login, req.Password)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.SetCookieKV(CookieName, token,
			iris.CookieHTTPOnly(true),
			iris.CookiePath("/"),
			iris.CookieExpires(cookieTTL))
		ctx.JSON(iris.Map{"token": token, "id": u.ID, "login": u.Login, "role": u.Role})
	})

	api.Post("/logout", func(ctx iris.Context) {
		ctx.RemoveCookie(CookieName)
		ctx.StatusCode(204)
	})

	// 公共目录，只读无鉴权
	public := app.Party("/public")
	public.Get("/products", func(ctx iris.Context) {
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
	public.Get("/products/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		v, err := productSvc.GetView(ctx.Request().Context(), id)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(productViewJSON(v))
	})
	public.Get("/categories", func(ctx iris.Context) {
		list, err := categorySvc.ListActive(ctx.Request().Context())
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		out := make([]iris.Map, 0, len(list))
		for _, c := range list {
			out = append(out, iris.Map{
				"id": c.ID, "name": c.Name, "type": c.Type,
				"description": c.Description, "color": c.Color,
				"isActive": c.IsActive, "createdAt": c.CreatedAt,
			})
		}
		ctx.JSON(out)
	})

	// 需要登录的接口
	authAPI := api.Party("/", newAuthMiddleware(cfg, redisClient))

	authAPI.Get("/me", func(ctx iris.Context) {
		ctx.JSON(iris.Map{
			"id":    ctx.Values().GetInt64Default("user_id", 0),
			"login": ctx.Values().GetStringDefault("login", ""),
			"role":  ctx.Values().GetStringDefault("role", ""),
		})
	})

	// ---------------- 购物车 ----------------

	authAPI.Get("/cart", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		view, err := cartSvc.View(ctx.Request().Context(), userID)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		items := make([]iris.Map, 0, len(view.Items))
		for _, it := range view.Items {
			items = append(items, cartItemJSON(it))
		}
		ctx.JSON(iris.Map{"items": items, "totalCents": view.TotalCents})
	})

	authAPI.Post("/cart", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		var req struct {
			ProductID int64  `json:"productId"`
			Qty       *int64 `json:"qty"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"message": "Invalid body"})
			return
		}
		if req.ProductID <= 0 {
			ctx.StopWithJSON(400, iris.Map{"message": "Invalid productId"})
			return
		}
		qty := int64(1)
		if req.Qty != nil {
			qty = *req.Qty
		}
		if err := cartSvc.AddLine(ctx.Request().Context(), userID, req.ProductID, qty); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"ok": true})
	})

	authAPI.Put("/cart/{productId:int64}", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		productID, _ := ctx.Params().GetInt64("productId")
		var req struct {
			Qty int64 `json:"qty"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"message": "Invalid body"})
			return
		}
		if err := cartSvc.SetLineQty(ctx.Request().Context(), userID, productID, req.Qty); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"ok": true})
	})

	authAPI.Delete("/cart/{productId:int64}", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		productID, _ := ctx.Params().GetInt64("productId")
		if err := cartSvc.RemoveLine(ctx.Request().Context(), userID, productID); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(204)
	})

	authAPI.Delete("/cart", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		if err := cartSvc.Clear(ctx.Request().Context(), userID); err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.StatusCode(204)
	})

	// ---------------- 结算 ----------------

	authAPI.Post("/checkout", middleware.CheckoutRateLimit(), func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		o, err := checkoutSvc.Checkout(ctx.Request().Context(), userID)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		ctx.JSON(iris.Map{
			"orderId":    o.ID,
			"status":     o.Status,
			"totalCents": o.TotalCents,
		})
	})

	// ---------------- 订单 ----------------

	authAPI.Get("/orders", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		list, err := orderSvc.ListForUser(ctx.Request().Context(), userID, 50)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		out := make([]iris.Map, 0, len(list))
		for _, o := range list {
			out = append(out, orderJSON(o))
		}
		ctx.JSON(out)
	})

	authAPI.Get("/orders/{id:int64}", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		orderID, _ := ctx.Params().GetInt64("id")
		detail, err := orderSvc.GetForUser(ctx.Request().Context(), userID, orderID)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		items := make([]iris.Map, 0, len(detail.Items))
		for _, it := range detail.Items {
			items = append(items, iris.Map{
				"productId":      it.ProductID,
				"name":           it.Name,
				"imageUrl":       it.ImageURL,
				"qty":            it.Qty,
				"unitPriceCents": it.UnitPriceCents,
				"lineTotalCents": it.LineTotalCents(),
			})
		}
		out := orderJSON(detail.Order)
		out["items"] = items
		ctx.JSON(out)
	})
}

package main

import (
	"context"
	"log"

	"github.com/IYNSSEN/ironfuel-ecommerce/internal/config"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/category"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/product"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/datamodels/user"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/repository/mysql"
	"github.com/IYNSSEN/ironfuel-ecommerce/internal/service"
)

// 初始化数据：管理员账号 + IronFuel 商品目录（仅当库为空时写入）
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	db := mysql.Init(&cfg.MySQL)
	ctx := context.Background()

	userRepo := mysql.NewUserRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	productRepo := mysql.NewProductRepository(db)
	userSvc := service.NewUserService(userRepo, &cfg.JWT)

	// 管理员账号
	var userCount int64
	db.Model(&user.User{}).Count(&userCount)
	if userCount == 0 {
		admin, err := userSvc.Register(ctx, "admin", "admin12345")
		if err != nil {
			log.Fatalf("seed admin failed: %v", err)
		}
		admin.Role = user.RoleAdmin
		if err := db.Save(admin).Error; err != nil {
			log.Fatalf("promote admin failed: %v", err)
		}
		log.Printf("seeded admin user id=%d", admin.ID)
	}

	// 目录非空则不再写入
	var categoryCount, productCount int64
	db.Model(&category.Category{}).Count(&categoryCount)
	db.Model(&product.Product{}).Count(&productCount)
	if categoryCount > 0 || productCount > 0 {
		log.Println("catalog not empty, skip seeding")
		return
	}

	categories := []*category.Category{
		{Name: "Whey Protein", Type: "Protein", Color: "#ef4444", IsActive: true, Description: "Whey isolates and blends for recovery."},
		{Name: "Creatine", Type: "Performance", Color: "#f97316", IsActive: true, Description: "Strength & power support (monohydrate, etc.)."},
		{Name: "Pre-Workout", Type: "Energy", Color: "#a855f7", IsActive: true, Description: "Focus + pump formulas for training sessions."},
		{Name: "Vitamins", Type: "Health", Color: "#22c55e", IsActive: true, Description: "Daily essentials for active lifestyle."},
		{Name: "Amino Acids", Type: "Recovery", Color: "#eab308", IsActive: true, Description: "BCAA / EAA for training support."},
		{Name: "Accessories", Type: "Gear", Color: "#64748b", IsActive: true, Description: "Shakers and small gym gear."},
		{Name: "Health", Type: "Wellness", Color: "#0ea5e9", IsActive: true, Description: "Omega-3, joint support and more."},
		{Name: "Gainers", Type: "Mass", Color: "#14b8a6", IsActive: true, Description: "High-calorie blends to support bulking."},
		{Name: "Hidden", Type: "System", Color: "#334155", IsActive: false, Description: "Not visible on public page."},
	}
	byName := make(map[string]int64, len(categories))
	for _, c := range categories {
		if err := categoryRepo.Create(ctx, c); err != nil {
			log.Fatalf("seed category %q failed: %v", c.Name, err)
		}
		byName[c.Name] = c.ID
	}

	catID := func(name string) *int64 {
		id := byName[name]
		return &id
	}

	products := []*product.Product{
		{Name: "IronFuel Whey 2kg (Vanilla)", PriceCents: 7499, Description: "25g protein/serving. Mixes smooth. Great post-workout.", CategoryID: catID("Whey Protein"), Stock: 18, ImageURL: "/ironfuel/whey.svg"},
		{Name: "Creatine Monohydrate 500g", PriceCents: 3999, Description: "Micronized creatine. 5g daily. Supports strength & power.", CategoryID: catID("Creatine"), Stock: 30, ImageURL: "/ironfuel/creatine.svg"},
		{Name: "Pre-Workout Focus+ (30 servings)", PriceCents: 4599, Description: "Caffeine + citrulline. Energy, focus and pump.", CategoryID: catID("Pre-Workout"), Stock: 12, ImageURL: "/ironfuel/preworkout.svg"},
		{Name: "Multivitamin Daily (60 caps)", PriceCents: 2299, Description: "Core vitamins/minerals for active lifestyle.", CategoryID: catID("Vitamins"), Stock: 40, ImageURL: "/ironfuel/multivitamin.svg"},
		{Name: "Omega-3 Triple Strength (90 softgels)", PriceCents: 2799, Description: "EPA/DHA support for heart, joints and recovery.", CategoryID: catID("Health"), Stock: 22, ImageURL: "/ironfuel/omega3.svg"},
		{Name: "BCAA 2:1:1 (30 servings, Lemon)", PriceCents: 2499, Description: "Classic 2:1:1 BCAA blend. Great during training.", CategoryID: catID("Amino Acids"), Stock: 26, ImageURL: "/ironfuel/bcaa.svg"},
		{Name: "Shaker Pro 700ml", PriceCents: 1299, Description: "Leak-proof shaker with mixing ball.", CategoryID: catID("Accessories"), Stock: 50, ImageURL: "/ironfuel/shaker.svg"},
		{Name: "Mass Gainer 3kg (Chocolate)", PriceCents: 8999, Description: "High-calorie blend for bulking phases.", CategoryID: catID("Gainers"), Stock: 9, ImageURL: "/ironfuel/gainer.svg"},
	}
	for _, p := range products {
		if err := productRepo.Create(ctx, p); err != nil {
			log.Fatalf("seed product %q failed: %v", p.Name, err)
		}
	}

	log.Printf("seeded %d categories and %d products", len(categories), len(products))
}

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/engineers-ent/backend-nirman/internal/auth"
	"github.com/engineers-ent/backend-nirman/internal/catalog"
	"github.com/engineers-ent/backend-nirman/internal/config"
	"github.com/engineers-ent/backend-nirman/internal/content"
	"github.com/engineers-ent/backend-nirman/internal/customer"
	"github.com/engineers-ent/backend-nirman/internal/pricing"
	"github.com/engineers-ent/backend-nirman/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.RunMigrations {
		if err := store.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			log.Fatalf("run migrations: %v", err)
		}
	}

	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	seedAdmin(ctx, db)
	seedSettings(ctx, db)
	seedCatalog(ctx, db)
	seedCustomers(ctx, db)

	log.Println("seeding completed")
}

func seedAdmin(ctx context.Context, db *store.Store) {
	email := envOrDefault("SEED_ADMIN_EMAIL", "admin@nirman.local")
	if _, err := db.GetStaffByEmail(ctx, email); err == nil {
		log.Printf("admin %s already exists, skipping", email)
		return
	} else if !errors.Is(err, auth.ErrStaffNotFound) {
		log.Fatalf("check admin: %v", err)
	}

	password := envOrDefault("SEED_ADMIN_PASSWORD", "changeme123")
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	if _, err := db.CreateStaff(ctx, auth.Staff{
		Email:        email,
		Name:         "Admin",
		Role:         auth.RoleAdmin,
		PasswordHash: hash,
	}); err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("created admin %s", email)
}

func seedSettings(ctx context.Context, db *store.Store) {
	if _, err := db.GetSettings(ctx); err == nil {
		log.Println("settings already exist, skipping")
		return
	} else if !errors.Is(err, content.ErrNotFound) {
		log.Fatalf("check settings: %v", err)
	}
	settings := content.DefaultSettings()
	settings.CompanyAddress = "ঢাকা, বাংলাদেশ"
	settings.InvoiceTerms = "ডেলিভারির সময় সম্পূর্ণ মূল্য পরিশোধযোগ্য।"
	if _, err := db.SaveSettings(ctx, settings); err != nil {
		log.Fatalf("save settings: %v", err)
	}
	log.Println("created default settings")
}

func seedCatalog(ctx context.Context, db *store.Store) {
	if _, total, err := db.ListProducts(ctx, catalog.ListFilter{Page: 1, Limit: 1}); err != nil {
		log.Fatalf("check products: %v", err)
	} else if total > 0 {
		log.Println("products already exist, skipping")
		return
	}

	flat := func(v pricing.Money) *pricing.Money { return &v }
	products := []catalog.Product{
		{
			Name:        "রাজকীয় গোল পিলার",
			ModelNo:     "RP-101",
			Category:    catalog.CategoryPorchPillar,
			Description: "বারান্দার জন্য ক্লাসিক গোল পিলার, উচ্চতা অনুযায়ী মূল্য।",
			IsPillar:    true,
			IsVisible:   true,
			PillarConfig: &pricing.Config{
				Tops: []pricing.Part{
					{ID: "t1", Name: "ক্লাসিক রাউন্ড টপ", Height: "১.৫ ফুট", Price: 1500},
					{ID: "t2", Name: "মডার্ন স্কয়ার টপ", Height: "১ ফুট", Price: 1800},
				},
				MiddlePricePerFoot: 450,
				Bottoms: []pricing.Part{
					{ID: "b1", Name: "স্ট্যান্ডার্ড বেস", Height: "১ ফুট", Price: 2000},
					{ID: "b2", Name: "ডাবল লেয়ার বেস", Height: "১.৫ ফুট", Price: 2500},
				},
			},
		},
		{
			Name:        "জানালার পিলার",
			ModelNo:     "WP-201",
			Category:    catalog.CategoryWindowPillar,
			Description: "জানালার পাশে বসানোর স্লিম পিলার।",
			IsPillar:    true,
			IsVisible:   true,
			PillarConfig: &pricing.Config{
				Tops:               []pricing.Part{{ID: "t1", Name: "স্লিম টপ", Height: "১ ফুট", Price: 900}},
				MiddlePricePerFoot: 300,
				Bottoms:            []pricing.Part{{ID: "b1", Name: "স্লিম বেস", Height: "১ ফুট", Price: 1100}},
			},
		},
		{
			Name:        "ফ্যান্সি ওয়াল ব্লক",
			ModelNo:     "FB-301",
			Category:    catalog.CategoryFancyBlock,
			Description: "দেয়ালের সাজসজ্জার ব্লক, প্রতি পিস।",
			IsVisible:   true,
			Price:       flat(85),
		},
		{
			Name:        "ছাদের কার্নিশ",
			ModelNo:     "RC-401",
			Category:    catalog.CategoryRoofCornice,
			Description: "ছাদের কিনারার কার্নিশ, প্রতি ফুট হিসেবে বিক্রি হয় না, প্রতি পিস।",
			IsVisible:   true,
			Price:       flat(650),
		},
		{
			Name:        "ব্যালাস্টার",
			ModelNo:     "BL-501",
			Category:    catalog.CategoryBaluster,
			Description: "সিঁড়ি ও ব্যালকনির রেলিং ব্যালাস্টার।",
			IsVisible:   true,
			Price:       flat(220),
		},
	}
	for _, p := range products {
		if _, err := db.CreateProduct(ctx, p); err != nil {
			log.Fatalf("seed product %s: %v", p.Name, err)
		}
	}
	log.Printf("created %d products", len(products))
}

func seedCustomers(ctx context.Context, db *store.Store) {
	if _, total, err := db.ListCustomers(ctx, 1, 1); err != nil {
		log.Fatalf("check customers: %v", err)
	} else if total > 0 {
		log.Println("customers already exist, skipping")
		return
	}
	customers := []customer.Customer{
		{Name: "করিম উদ্দিন", Phone: "01711122233", Address: "মিরপুর, ঢাকা"},
		{Name: "রহিমা বেগম", Phone: "01899887766", Address: "উত্তরা, ঢাকা"},
	}
	for _, c := range customers {
		if _, err := db.CreateCustomer(ctx, c); err != nil {
			log.Fatalf("seed customer %s: %v", c.Name, err)
		}
	}
	log.Printf("created %d customers", len(customers))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

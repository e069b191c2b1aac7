package main

import (
	"context"
	"log"

	"gearbay/internal/config"
	"gearbay/internal/database"
	"gearbay/internal/handlers"
	"gearbay/internal/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Initialize(logger.ParseLevel(cfg.LogLevel), cfg.IsDevelopment())

	db, err := database.Connect(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Client().Disconnect(context.Background())

	if err := database.EnsureIndexes(db); err != nil {
		log.Fatal("Failed to ensure indexes:", err)
	}

	categories := database.NewMongoCategoryStore(db)
	if err := categories.Seed(context.Background(), database.DefaultCategories); err != nil {
		log.Fatal("Failed to seed categories:", err)
	}

	app := &handlers.App{
		Accounts:   database.NewMongoAccountStore(db),
		Listings:   database.NewMongoListingStore(db),
		Categories: categories,
		Sessions:   database.NewMongoSessionStore(db),
		Cfg:        cfg,
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.LoadHTMLGlob("templates/*.html")
	r.Static("/static", "./static")

	handlers.SetupRoutes(r, app)

	logger.Info("Server starting", "host", cfg.Host, "port", cfg.Port)
	log.Fatal(r.Run(cfg.Host + ":" + cfg.Port))
}

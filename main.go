package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/EvgeniyKrainov/foodgram/internal/config"
	"github.com/EvgeniyKrainov/foodgram/internal/handlers"
	"github.com/EvgeniyKrainov/foodgram/internal/middleware"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
	"github.com/EvgeniyKrainov/foodgram/internal/repositories"
	"github.com/EvgeniyKrainov/foodgram/internal/services"
	"github.com/EvgeniyKrainov/foodgram/pkg/imagestore"
	"github.com/EvgeniyKrainov/foodgram/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// RabbitMQ is optional; without a URL recipe events are simply not
	// published.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, recipe events disabled: %v", err)
			mqClient = nil
		} else {
			defer mqClient.Close()
		}
	}

	catalogRepo := repositories.NewGORMCatalogRepository(db)
	seedCatalog(cfg, catalogRepo)

	var events services.RecipeEventPublisher
	if mqClient != nil {
		events = mqClient
	}
	app := NewApp(cfg, db, events)

	if mqClient != nil {
		if err := mqClient.ConsumeRecipeEvents(func(msg amqp.Delivery) error {
			log.Printf("Recipe event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		}); err != nil {
			log.Printf("Warning: failed to start recipe event consumer: %v", err)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp wires repositories, services and handlers into a Fiber app. The
// event publisher may be nil.
func NewApp(cfg *config.Config, db *gorm.DB, events services.RecipeEventPublisher) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(db)
	catalogRepo := repositories.NewGORMCatalogRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	relationRepo := repositories.NewGORMRelationRepository(db)
	subRepo := repositories.NewGORMSubscriptionRepository(db)

	images := imagestore.New(cfg.MediaDir, "/media")

	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	userService := services.NewUserService(userRepo, subRepo, recipeRepo, images)
	catalogService := services.NewCatalogService(catalogRepo)
	recipeService := services.NewRecipeService(recipeRepo, catalogRepo, relationRepo, images, events, cfg)
	shoppingService := services.NewShoppingService(relationRepo)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, authService, cfg.PageSize)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, shoppingService, userService, cfg.PageSize)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	app.Use(logger.New())
	app.Static("/media", cfg.MediaDir)

	authRequired := middleware.AuthRequired(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api, authRequired, optionalAuth)
	catalogHandler.RegisterRoutes(api)
	recipeHandler.RegisterRoutes(api, authRequired, optionalAuth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// openDatabase connects to PostgreSQL when a DSN is configured and falls
// back to a local SQLite file otherwise, then migrates the schema.
// TranslateError lets the repositories detect unique-index violations as
// gorm.ErrDuplicatedKey across both drivers.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}

	var db *gorm.DB
	var err error
	if cfg.DatabaseDSN != "" {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), gormCfg)
	} else {
		db, err = gorm.Open(sqlite.Open("foodgram.db"), gormCfg)
	}
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
		&models.Subscribe{},
	)
}

// seedCatalog loads the ingredient and tag catalogs from the data directory
// when they are empty. Seed files are plain JSON arrays.
func seedCatalog(cfg *config.Config, repo repositories.CatalogRepository) {
	existing, err := repo.Ingredients("")
	if err != nil {
		log.Printf("Error checking ingredient catalog: %v", err)
		return
	}
	if len(existing) == 0 {
		var ingredients []models.Ingredient
		if loadJSON(filepath.Join(cfg.DataDir, "ingredients.json"), &ingredients) {
			if err := repo.SeedIngredients(ingredients); err != nil {
				log.Printf("Error seeding ingredients: %v", err)
			} else {
				log.Printf("Seeded %d ingredients", len(ingredients))
			}
		}
	}

	tags, err := repo.Tags()
	if err != nil {
		log.Printf("Error checking tag catalog: %v", err)
		return
	}
	if len(tags) == 0 {
		var seed []models.Tag
		if loadJSON(filepath.Join(cfg.DataDir, "tags.json"), &seed) {
			if err := repo.SeedTags(seed); err != nil {
				log.Printf("Error seeding tags: %v", err)
			} else {
				log.Printf("Seeded %d tags", len(seed))
			}
		}
	}
}

func loadJSON(path string, dst interface{}) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error reading %s: %v", path, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("Error parsing %s: %v", path, err)
		return false
	}
	return true
}

package config

import (
	"Foodgram-Backend/internal/api/handlers"
	"Foodgram-Backend/internal/api/routes"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/cart"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
	"Foodgram-Backend/pkg/subscription"
	"Foodgram-Backend/pkg/user"
	"context"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const bodyLimit = 10 * 1024 * 1024

func NewApp(db *gorm.DB, cfg *utils.Config, log *zap.SugaredLogger) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "create logs directory")
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, errors.Wrap(err, "open access log")
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     io.MultiWriter(file, os.Stdout),
	}))

	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: 1 * time.Second,
		}))
	}

	// utils
	fileStorage, err := newFileStorage(cfg, log)
	if err != nil {
		return nil, err
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	relationRepository := relation.NewRelationRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	cartRepository := cart.NewCartRepository(db)

	// Service
	jwtService := jwt.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	userService := user.NewUserService(userRepository, relationRepository, jwtService, log)
	recipeService := recipe.NewRecipeService(recipeRepository, relationRepository, fileStorage, log)
	ingredientService, err := ingredient.NewIngredientService(ingredientRepository, log)
	if err != nil {
		return nil, err
	}
	cartService := cart.NewCartService(
		relationRepository,
		recipeRepository,
		cart.NewAggregator(cartRepository),
		cfg.ReportRowsPerPage,
		log,
	)
	subscriptionService := subscription.NewSubscriptionService(relationRepository, userRepository, recipeRepository, log)

	middlewares := middleware.NewMiddleware(cfg.AllowedOrigins, userService)

	// Handler
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         handlers.NewUserHandler(userService, validator),
		RecipeHandler:       handlers.NewRecipeHandler(recipeService, validator),
		CartHandler:         handlers.NewCartHandler(cartService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(subscriptionService),
		IngredientHandler:   handlers.NewIngredientHandler(ingredientService),
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	if local, ok := fileStorage.(*storage.LocalStorage); ok {
		routesConfig.MediaRoot = local.Root()
	}
	routesConfig.Setup()
	return app, nil
}

// newFileStorage uses S3 when a bucket is configured and the local media
// directory otherwise.
func newFileStorage(cfg *utils.Config, log *zap.SugaredLogger) (storage.FileStorage, error) {
	if cfg.AWSS3Bucket == "" {
		log.Infow("storing images on local disk", "media_root", cfg.MediaRoot)
		return storage.NewLocalStorage(cfg.MediaRoot), nil
	}
	s3, err := storage.NewAwsS3(context.Background(), cfg.AWSS3Bucket, cfg.AWSS3Region, cfg.AWSAccessKey, cfg.AWSSecretKey)
	if err != nil {
		return nil, err
	}
	log.Infow("storing images on s3", "bucket", cfg.AWSS3Bucket, "region", cfg.AWSS3Region)
	return s3, nil
}

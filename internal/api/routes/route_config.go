package routes

import (
	"Foodgram-Backend/internal/api/handlers"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	RecipeHandler       handlers.RecipeHandler
	CartHandler         handlers.CartHandler
	SubscriptionHandler handlers.SubscriptionHandler
	IngredientHandler   handlers.IngredientHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
	MediaRoot           string
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Reference()
	c.Recipe()
}

func (c *Config) User() {
	optional := c.Middleware.Authenticate(c.JWTService)
	required := c.Middleware.AuthMiddleware(c.JWTService)

	auth := c.App.Group("/api/v1/auth")
	auth.Post("/token/login", c.UserHandler.Login)
	auth.Post("/token/logout", required, c.UserHandler.Logout)

	user := c.App.Group("/api/v1/users")
	// static paths first so they are not captured by /:id
	{
		user.Post("/", c.UserHandler.Register)
		user.Get("/", optional, c.UserHandler.ListUsers)
		user.Get("/me", required, c.UserHandler.Me)
		user.Delete("/me", required, c.UserHandler.DeleteMe)
		user.Get("/subscriptions", required, c.SubscriptionHandler.ListSubscriptions)
		user.Post("/set_password", required, c.UserHandler.SetPassword)
		user.Get("/:id", optional, c.UserHandler.GetUser)
		user.Post("/:id/subscribe", required, c.SubscriptionHandler.Subscribe)
		user.Delete("/:id/subscribe", required, c.SubscriptionHandler.Unsubscribe)
	}
}

func (c *Config) Reference() {
	tags := c.App.Group("/api/v1/tags")
	tags.Get("/", c.IngredientHandler.GetTags)
	tags.Get("/:id", c.IngredientHandler.GetTag)

	ingredients := c.App.Group("/api/v1/ingredients")
	ingredients.Get("/", c.IngredientHandler.SearchIngredients)
	ingredients.Get("/:id", c.IngredientHandler.GetIngredient)
}

func (c *Config) Recipe() {
	optional := c.Middleware.Authenticate(c.JWTService)
	required := c.Middleware.AuthMiddleware(c.JWTService)

	recipe := c.App.Group("/api/v1/recipes")
	{
		recipe.Get("/", optional, c.RecipeHandler.ListRecipes)
		recipe.Post("/", required, c.RecipeHandler.CreateRecipe)
		recipe.Get("/download_shopping_cart", required, c.CartHandler.DownloadShoppingCart)
		recipe.Get("/:id", optional, c.RecipeHandler.GetRecipe)
		recipe.Patch("/:id", required, c.RecipeHandler.UpdateRecipe)
		recipe.Delete("/:id", required, c.RecipeHandler.DeleteRecipe)
		recipe.Post("/:id/favorite", required, c.RecipeHandler.AddFavorite)
		recipe.Delete("/:id/favorite", required, c.RecipeHandler.RemoveFavorite)
		recipe.Post("/:id/shopping_cart", required, c.CartHandler.AddToCart)
		recipe.Delete("/:id/shopping_cart", required, c.CartHandler.RemoveFromCart)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	if c.MediaRoot != "" {
		c.App.Static("/media", c.MediaRoot)
	}
}

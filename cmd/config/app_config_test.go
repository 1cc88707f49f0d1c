package config

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/testutil"
	"Foodgram-Backend/internal/utils"
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := &utils.Config{
		AppEnv:            "test",
		LogLevel:          "info",
		JWTSecret:         "test-secret",
		JWTTTLMinutes:     60,
		MediaRoot:         t.TempDir(),
		ReportRowsPerPage: 21,
		AllowedOrigins:    "*",
	}
	app, err := NewApp(db, cfg, testutil.NewLogger())
	require.NoError(t, err)
	return app, db
}

func (c *client) do(method, path, token string, body any) (*http.Response, envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) && len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &env))
	} else {
		env.Data = raw
	}
	return resp, env
}

func (c *client) register(username string) (domain.UserResponse, string) {
	c.t.Helper()
	email := username + "@example.com"
	resp, env := c.do(http.MethodPost, "/api/v1/users", "", domain.RegisterRequest{
		Email:     email,
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "password123",
	})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode, env.Error)
	var user domain.UserResponse
	require.NoError(c.t, json.Unmarshal(env.Data, &user))

	resp, env = c.do(http.MethodPost, "/api/v1/auth/token/login", "", domain.LoginRequest{
		Email:    email,
		Password: "password123",
	})
	require.Equal(c.t, http.StatusOK, resp.StatusCode, env.Error)
	var login domain.LoginResponse
	require.NoError(c.t, json.Unmarshal(env.Data, &login))
	return user, login.AuthToken
}

func TestRecipeLifecycle(t *testing.T) {
	app, db := newTestApp(t)
	c := &client{t: t, app: app}
	fixtures := testutil.NewFixtures(t, db)
	tag := fixtures.Tag("breakfast")
	flour := fixtures.Ingredient("flour", "g")
	egg := fixtures.Ingredient("egg", "pcs")

	alice, aliceToken := c.register("alice")
	_, bobToken := c.register("bob")

	t.Run("auth", func(t *testing.T) {
		resp, _ := c.do(http.MethodGet, "/api/v1/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = c.do(http.MethodGet, "/api/v1/users/me", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, env := c.do(http.MethodGet, "/api/v1/users/me", aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var me domain.UserResponse
		require.NoError(t, json.Unmarshal(env.Data, &me))
		assert.Equal(t, alice.ID, me.ID)

		resp, _ = c.do(http.MethodPost, "/api/v1/auth/token/login", "", domain.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong-password",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = c.do(http.MethodPost, "/api/v1/users", "", domain.RegisterRequest{
			Email: "alice@example.com", Username: "alice2", FirstName: "A", LastName: "B", Password: "password123",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	request := domain.RecipeRequest{
		Name:        "Pancakes",
		Text:        "Whisk and fry.",
		CookingTime: 20,
		Image:       pixelPNG,
		Tags:        []uuid.UUID{tag.ID},
		Ingredients: []domain.IngredientAmount{{ID: flour.ID, Amount: 200}, {ID: egg.ID, Amount: 2}},
	}

	resp, _ := c.do(http.MethodPost, "/api/v1/recipes", "", request)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env := c.do(http.MethodPost, "/api/v1/recipes", aliceToken, request)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
	var created domain.RecipeResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, alice.ID, created.Author.ID)
	assert.Len(t, created.Ingredients, 2)
	require.True(t, strings.HasPrefix(created.Image, "/media/"), created.Image)
	recipePath := "/api/v1/recipes/" + created.ID.String()

	t.Run("image is served", func(t *testing.T) {
		resp, _ := c.do(http.MethodGet, created.Image, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("invalid amount is rejected", func(t *testing.T) {
		bad := request
		bad.Ingredients = []domain.IngredientAmount{{ID: flour.ID, Amount: 32001}}
		resp, _ := c.do(http.MethodPost, "/api/v1/recipes", aliceToken, bad)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("only the author may edit", func(t *testing.T) {
		update := request
		update.Image = ""
		update.Name = "Better pancakes"
		resp, _ := c.do(http.MethodPatch, recipePath, bobToken, update)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, env := c.do(http.MethodPatch, recipePath, aliceToken, update)
		require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
		var updated domain.RecipeResponse
		require.NoError(t, json.Unmarshal(env.Data, &updated))
		assert.Equal(t, "Better pancakes", updated.Name)
	})

	t.Run("favorite toggle", func(t *testing.T) {
		resp, _ := c.do(http.MethodPost, recipePath+"/favorite", bobToken, nil)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp, _ = c.do(http.MethodPost, recipePath+"/favorite", bobToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, env := c.do(http.MethodGet, recipePath, bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got domain.RecipeResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.True(t, got.IsFavorited)

		resp, _ = c.do(http.MethodDelete, recipePath+"/favorite", bobToken, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp, _ = c.do(http.MethodDelete, recipePath+"/favorite", bobToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("shopping cart download", func(t *testing.T) {
		resp, _ := c.do(http.MethodPost, recipePath+"/shopping_cart", bobToken, nil)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp, _ = c.do(http.MethodPost, recipePath+"/shopping_cart", bobToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, env := c.do(http.MethodGet, "/api/v1/recipes?is_in_shopping_cart=1", bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var page struct {
			Recipes []domain.RecipeResponse `json:"recipes"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &page))
		require.Len(t, page.Recipes, 1)
		assert.True(t, page.Recipes[0].IsInShoppingCart)

		resp, env = c.do(http.MethodGet, "/api/v1/recipes/download_shopping_cart?format=txt", bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), `attachment; filename="shopping_cart.txt"`)
		assert.Equal(t, domain.ShoppingListTitle+"\n\n1. egg    2 pcs\n2. flour    200 g\n", string(env.Data))

		resp, env = c.do(http.MethodGet, "/api/v1/recipes/download_shopping_cart", bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(env.Data, []byte("%PDF")))

		resp, _ = c.do(http.MethodGet, "/api/v1/recipes/download_shopping_cart?format=doc", bobToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = c.do(http.MethodGet, "/api/v1/recipes/download_shopping_cart", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = c.do(http.MethodDelete, recipePath+"/shopping_cart", bobToken, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp, env = c.do(http.MethodGet, "/api/v1/recipes/download_shopping_cart?format=txt", bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, domain.ShoppingListTitle+"\n\n", string(env.Data))
	})

	t.Run("subscriptions", func(t *testing.T) {
		subscribePath := "/api/v1/users/" + alice.ID.String() + "/subscribe"
		resp, env := c.do(http.MethodPost, subscribePath+"?recipes_limit=1", bobToken, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
		var author domain.SubscriptionAuthor
		require.NoError(t, json.Unmarshal(env.Data, &author))
		assert.True(t, author.IsSubscribed)
		assert.Equal(t, int64(1), author.RecipesCount)
		assert.Len(t, author.Recipes, 1)

		resp, _ = c.do(http.MethodPost, subscribePath, bobToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp, _ = c.do(http.MethodPost, subscribePath, aliceToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, env = c.do(http.MethodGet, "/api/v1/users/subscriptions", bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var page struct {
			Authors []domain.SubscriptionAuthor `json:"authors"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &page))
		require.Len(t, page.Authors, 1)
		assert.Equal(t, alice.ID, page.Authors[0].ID)

		resp, env = c.do(http.MethodGet, "/api/v1/users/"+alice.ID.String(), bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var profile domain.UserResponse
		require.NoError(t, json.Unmarshal(env.Data, &profile))
		assert.True(t, profile.IsSubscribed)

		resp, _ = c.do(http.MethodDelete, subscribePath, bobToken, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp, _ = c.do(http.MethodDelete, subscribePath, bobToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete recipe", func(t *testing.T) {
		resp, _ := c.do(http.MethodDelete, recipePath, bobToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp, _ = c.do(http.MethodDelete, recipePath, aliceToken, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp, _ = c.do(http.MethodGet, recipePath, "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp, _ = c.do(http.MethodGet, "/api/v1/recipes/not-a-uuid", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("delete account", func(t *testing.T) {
		resp, _ := c.do(http.MethodDelete, "/api/v1/users/me", bobToken, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp, _ = c.do(http.MethodPost, "/api/v1/auth/token/login", "", domain.LoginRequest{
			Email:    "bob@example.com",
			Password: "password123",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp, _ = c.do(http.MethodGet, "/api/v1/users/me", bobToken, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestSessionRevocation(t *testing.T) {
	app, _ := newTestApp(t)
	c := &client{t: t, app: app}
	_, token := c.register("carol")

	login := func(password string) (int, string) {
		resp, env := c.do(http.MethodPost, "/api/v1/auth/token/login", "", domain.LoginRequest{
			Email:    "carol@example.com",
			Password: password,
		})
		var res domain.LoginResponse
		if resp.StatusCode == http.StatusOK {
			require.NoError(t, json.Unmarshal(env.Data, &res))
		}
		return resp.StatusCode, res.AuthToken
	}

	t.Run("set password", func(t *testing.T) {
		resp, _ := c.do(http.MethodPost, "/api/v1/users/set_password", "", domain.SetPasswordRequest{
			CurrentPassword: "password123", NewPassword: "new-password",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = c.do(http.MethodPost, "/api/v1/users/set_password", token, domain.SetPasswordRequest{
			CurrentPassword: "wrong-password", NewPassword: "new-password",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = c.do(http.MethodPost, "/api/v1/users/set_password", token, domain.SetPasswordRequest{
			CurrentPassword: "password123", NewPassword: "short",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = c.do(http.MethodPost, "/api/v1/users/set_password", token, domain.SetPasswordRequest{
			CurrentPassword: "password123", NewPassword: "new-password",
		})
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = c.do(http.MethodGet, "/api/v1/users/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		status, _ := login("password123")
		assert.Equal(t, http.StatusBadRequest, status)
		status, token = login("new-password")
		require.Equal(t, http.StatusOK, status)

		resp, _ = c.do(http.MethodGet, "/api/v1/users/me", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("logout", func(t *testing.T) {
		_, other := login("new-password")

		resp, _ := c.do(http.MethodPost, "/api/v1/auth/token/logout", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = c.do(http.MethodPost, "/api/v1/auth/token/logout", token, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = c.do(http.MethodGet, "/api/v1/users/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp, _ = c.do(http.MethodGet, "/api/v1/users/me", other, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp, _ = c.do(http.MethodPost, "/api/v1/auth/token/logout", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		_, fresh := login("new-password")
		resp, _ = c.do(http.MethodGet, "/api/v1/users/me", fresh, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestServiceEndpoints(t *testing.T) {
	app, _ := newTestApp(t)
	c := &client{t: t, app: app}

	resp, _ := c.do(http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := c.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), "go_goroutines")
}

func TestListeningApp(t *testing.T) {
	app, db := newTestApp(t)
	fixtures := testutil.NewFixtures(t, db)
	fixtures.Tag("dinner")
	fixtures.Ingredient("Salt", "g")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.ShutdownWithTimeout(5 * time.Second) })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	type tagsResp struct {
		Data []domain.TagResponse `json:"data"`
	}

	base := "http://" + ln.Addr().String()
	resp, err := resty.New().
		R().
		SetContext(ctx).
		SetResult(&tagsResp{}).
		Get(base + "/api/v1/tags")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	got, ok := resp.Result().(*tagsResp)
	require.True(t, ok)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "dinner", got.Data[0].Slug)

	type ingredientsResp struct {
		Data []domain.IngredientResponse `json:"data"`
	}
	resp, err = resty.New().
		R().
		SetContext(ctx).
		SetQueryParam("name", "sa").
		SetResult(&ingredientsResp{}).
		Get(base + "/api/v1/ingredients")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	ingredients := resp.Result().(*ingredientsResp)
	require.Len(t, ingredients.Data, 1)
	assert.Equal(t, "Salt", ingredients.Data[0].Name)
}

package handlers

import (
	"Foodgram-Backend/domain"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryHelpers(t *testing.T) {
	type result struct {
		page, limit int
		tags        []string
		fav         bool
	}
	var got result

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got.page, got.limit = pageParams(c)
		got.tags = multiQuery(c, "tags")
		got.fav = flagQuery(c, "is_favorited")
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		name  string
		query string
		want  result
	}{
		{"defaults", "/", result{1, domain.DefaultPageLimit, nil, false}},
		{"explicit", "/?page=3&limit=5&is_favorited=1", result{3, 5, nil, true}},
		{"garbage numbers", "/?page=x&limit=-2&is_favorited=no", result{1, domain.DefaultPageLimit, nil, false}},
		{"capped limit", "/?limit=1000&is_favorited=true", result{1, domain.MaxPageLimit, nil, true}},
		{"repeated tags", "/?tags=lunch&tags=dinner,breakfast&tags=", result{1, domain.DefaultPageLimit, []string{"lunch", "dinner", "breakfast"}, false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got = result{}
			resp, err := app.Test(httptest.NewRequest("GET", tc.query, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(c *fiber.Ctx) error {
		if _, err := paramID(c); err != nil {
			assert.ErrorIs(t, err, domain.ErrParseUUID)
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/0b8f9c4e-3d4a-4a4f-9d0e-6c2f7a1b2c3d", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

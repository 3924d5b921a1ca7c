package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		path    string
		headers map[string]string
		want    int
	}{
		{"no key configured", "", "/api/games", nil, fiber.StatusOK},
		{"missing key", "secret", "/api/games", nil, fiber.StatusUnauthorized},
		{"wrong key", "secret", "/api/games", map[string]string{HeaderName: "nope"}, fiber.StatusUnauthorized},
		{"header key", "secret", "/api/games", map[string]string{HeaderName: "secret"}, fiber.StatusOK},
		{"bearer key", "secret", "/api/games", map[string]string{"Authorization": "Bearer secret"}, fiber.StatusOK},
		{"skipped path", "secret", "/health", nil, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(New(Config{ApiKey: tt.apiKey, Skip: []string{"/health"}}))
			app.Get("/*", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

			req := httptest.NewRequest("GET", tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

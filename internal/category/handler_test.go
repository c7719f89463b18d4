package category

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

func makeApp(repo Repository) *fiber.App {
	h := NewHandler(NewService(repo), zap.NewNop())
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				claims := jwt.MapClaims{"user_id": id, "is_admin": c.Get("X-Admin") == "true"}
				c.Locals("user", &jwt.Token{Claims: claims})
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func TestListCategories_SortedByName(t *testing.T) {
	app := makeApp(NewInMemoryRepository([]Category{{ID: 1, Name: "Vitamins"}, {ID: 2, Name: "Antibiotics"}}))

	res, err := app.Test(httptest.NewRequest("GET", "/api/categories", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var items []Category
	json.NewDecoder(res.Body).Decode(&items)
	if len(items) != 2 || items[0].Name != "Antibiotics" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestGetCategory(t *testing.T) {
	app := makeApp(NewInMemoryRepository([]Category{{ID: 1, Name: "Vitamins"}}))

	cases := []struct {
		path   string
		status int
	}{
		{"/api/categories/1", fiber.StatusOK},
		{"/api/categories/99", fiber.StatusNotFound},
		{"/api/categories/abc", fiber.StatusNotFound},
	}
	for _, tc := range cases {
		res, _ := app.Test(httptest.NewRequest("GET", tc.path, nil))
		if res.StatusCode != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.status, res.StatusCode)
		}
	}
}

func TestCreateUpdateDeleteCategory(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	app := makeApp(repo)

	req := httptest.NewRequest("POST", "/api/categories", strings.NewReader(`{"name":"Painkillers"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "1")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on create, got %d", res.StatusCode)
	}
	var created Category
	json.NewDecoder(res.Body).Decode(&created)

	short := httptest.NewRequest("POST", "/api/categories", strings.NewReader(`{"name":"abc"}`))
	short.Header.Set("Content-Type", "application/json")
	short.Header.Set("X-User-ID", "1")
	res, _ = app.Test(short)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 on short name, got %d", res.StatusCode)
	}

	upd := httptest.NewRequest("PUT", "/api/categories/"+strconv.Itoa(created.ID), strings.NewReader(`{"name":"Pain relief"}`))
	upd.Header.Set("Content-Type", "application/json")
	upd.Header.Set("X-User-ID", "1")
	res, _ = app.Test(upd)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on update, got %d", res.StatusCode)
	}

	del := httptest.NewRequest("DELETE", "/api/categories/"+strconv.Itoa(created.ID), nil)
	del.Header.Set("X-User-ID", "1")
	res, _ = app.Test(del)
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin delete, got %d", res.StatusCode)
	}

	del.Header.Set("X-Admin", "true")
	res, _ = app.Test(del)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for admin delete, got %d", res.StatusCode)
	}
	var removed Category
	json.NewDecoder(res.Body).Decode(&removed)
	if removed.Name != "Pain relief" {
		t.Fatalf("expected removed category returned, got %+v", removed)
	}
	if _, err := repo.GetByID(req.Context(), created.ID); err == nil {
		t.Fatalf("category still stored after delete")
	}
}

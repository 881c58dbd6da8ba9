package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/EvgeniyKrainov/foodgram/internal/config"
	"github.com/EvgeniyKrainov/foodgram/internal/handlers"
	"github.com/EvgeniyKrainov/foodgram/internal/middleware"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
	"github.com/EvgeniyKrainov/foodgram/internal/repositories"
	"github.com/EvgeniyKrainov/foodgram/internal/services"
	"github.com/EvgeniyKrainov/foodgram/pkg/imagestore"
)

const testImage = "data:image/png;base64,aGVsbG8="

var dbSeq int

// setupApp builds the full Fiber app against a fresh in-memory SQLite
// database with a small seeded catalog.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", dbSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
		&models.Subscribe{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:   "test_jwt_secret",
		MediaDir:    t.TempDir(),
		PageSize:    6,
		Amount:      config.Bounds{Min: 1, Max: 32000},
		CookingTime: config.Bounds{Min: 1, Max: 32000},
	}

	userRepo := repositories.NewGORMUserRepository(db)
	catalogRepo := repositories.NewGORMCatalogRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	relationRepo := repositories.NewGORMRelationRepository(db)
	subRepo := repositories.NewGORMSubscriptionRepository(db)

	err = catalogRepo.SeedIngredients([]models.Ingredient{
		{ID: 1, Name: "Flour", MeasurementUnit: "g"},
		{ID: 2, Name: "Sugar", MeasurementUnit: "g"},
		{ID: 3, Name: "Egg", MeasurementUnit: "pcs"},
	})
	assert.NoError(t, err)
	err = catalogRepo.SeedTags([]models.Tag{
		{ID: 1, Name: "Breakfast", Slug: "breakfast"},
		{ID: 2, Name: "Dinner", Slug: "dinner"},
	})
	assert.NoError(t, err)

	images := imagestore.New(cfg.MediaDir, "/media")
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	userService := services.NewUserService(userRepo, subRepo, recipeRepo, images)
	catalogService := services.NewCatalogService(catalogRepo)
	recipeService := services.NewRecipeService(recipeRepo, catalogRepo, relationRepo, images, nil, cfg)
	shoppingService := services.NewShoppingService(relationRepo)

	app := fiber.New()
	authRequired := middleware.AuthRequired(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	api := app.Group("/api")
	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewUserHandler(userService, authService, cfg.PageSize).RegisterRoutes(api, authRequired, optionalAuth)
	handlers.NewCatalogHandler(catalogService).RegisterRoutes(api)
	handlers.NewRecipeHandler(recipeService, shoppingService, userService, cfg.PageSize).RegisterRoutes(api, authRequired, optionalAuth)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func registerAndLogin(t *testing.T, app *fiber.App, email, username string) string {
	t.Helper()

	resp, _ := doJSON(t, app, http.MethodPost, "/api/users", "", fiber.Map{
		"email":      email,
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := doJSON(t, app, http.MethodPost, "/api/auth/token/login", "", fiber.Map{
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		AuthToken string `json:"auth_token"`
	}
	assert.NoError(t, json.Unmarshal(raw, &body))
	assert.NotEmpty(t, body.AuthToken)
	return body.AuthToken
}

func createRecipe(t *testing.T, app *fiber.App, token string, name string, ingredients []fiber.Map) uint {
	t.Helper()

	resp, raw := doJSON(t, app, http.MethodPost, "/api/recipes", token, fiber.Map{
		"name":         name,
		"text":         "Cook it.",
		"cooking_time": 15,
		"image":        testImage,
		"tags":         []uint{1},
		"ingredients":  ingredients,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var body struct {
		ID uint `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(raw, &body))
	return body.ID
}

func TestUnauthenticatedAccess(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/recipes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The catalog is public.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/tags", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRecipeLifecycle(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "chef@example.com", "chef")

	recipeID := createRecipe(t, app, token, "Pancakes", []fiber.Map{
		{"id": 1, "amount": 100},
		{"id": 2, "amount": 50},
	})

	// Anonymous read sees the recipe with per-user flags off.
	resp, raw := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/recipes/%d", recipeID), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		Name        string `json:"name"`
		IsFavorited bool   `json:"is_favorited"`
		Ingredients []struct {
			ID     uint `json:"id"`
			Amount int  `json:"amount"`
		} `json:"ingredients"`
	}
	assert.NoError(t, json.Unmarshal(raw, &detail))
	assert.Equal(t, "Pancakes", detail.Name)
	assert.False(t, detail.IsFavorited)
	assert.Len(t, detail.Ingredients, 2)

	// Wholesale replace: the update payload's single line is the whole set.
	resp, raw = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/recipes/%d", recipeID), token, fiber.Map{
		"name":         "Pancakes v2",
		"text":         "Cook it better.",
		"cooking_time": 20,
		"tags":         []uint{1},
		"ingredients":  []fiber.Map{{"id": 1, "amount": 200}},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.NoError(t, json.Unmarshal(raw, &detail))
	if assert.Len(t, detail.Ingredients, 1) {
		assert.Equal(t, uint(1), detail.Ingredients[0].ID)
		assert.Equal(t, 200, detail.Ingredients[0].Amount)
	}

	// Validation failures surface as per-field 400s.
	resp, raw = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/api/recipes/%d", recipeID), token, fiber.Map{
		"name":         "Broken",
		"text":         "No tags.",
		"cooking_time": 20,
		"tags":         []uint{},
		"ingredients":  []fiber.Map{{"id": 1, "amount": 200}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "tags")
}

func TestFavoriteAndShoppingCartFlow(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "chef@example.com", "chef")

	recipe1 := createRecipe(t, app, token, "Cake", []fiber.Map{
		{"id": 1, "amount": 200},
		{"id": 2, "amount": 50},
	})
	recipe2 := createRecipe(t, app, token, "Omelette", []fiber.Map{
		{"id": 1, "amount": 100},
		{"id": 3, "amount": 2},
	})

	// Favoriting twice is rejected on the second attempt.
	resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite", recipe1), token, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite", recipe1), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", recipe1), token, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", recipe2), token, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "shopping_list.txt")
	assert.Equal(t, "Shopping list:\n\n- Egg: 2 pcs\n- Flour: 300 g\n- Sugar: 50 g\n", string(raw))

	// Removing an absent relation is a 404.
	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/recipes/%d/favorite", recipe2), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEmptyCartDownloadsHeaderOnlyFile(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "chef@example.com", "chef")

	resp, raw := doJSON(t, app, http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Shopping list:\n\n", string(raw))
}

func TestSubscriptionFlow(t *testing.T) {
	app := setupApp(t)
	chefToken := registerAndLogin(t, app, "chef@example.com", "chef")
	fanToken := registerAndLogin(t, app, "fan@example.com", "fan")

	createRecipe(t, app, chefToken, "Cake", []fiber.Map{{"id": 1, "amount": 200}})

	// chef is user 1, fan is user 2.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/users/2/subscribe", fanToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "self-subscribe must be rejected")

	resp, _ = doJSON(t, app, http.MethodPost, "/api/users/1/subscribe", fanToken, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/api/users/1/subscribe", fanToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "duplicate subscribe must be rejected")

	resp, raw := doJSON(t, app, http.MethodGet, "/api/users/subscriptions?recipes_limit=1", fanToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Count   int64 `json:"count"`
		Results []struct {
			Username     string `json:"username"`
			IsSubscribed bool   `json:"is_subscribed"`
			Recipes      []struct {
				Name string `json:"name"`
			} `json:"recipes"`
			RecipesCount int64 `json:"recipes_count"`
		} `json:"results"`
	}
	assert.NoError(t, json.Unmarshal(raw, &page))
	if assert.Len(t, page.Results, 1) {
		assert.Equal(t, "chef", page.Results[0].Username)
		assert.True(t, page.Results[0].IsSubscribed)
		assert.Len(t, page.Results[0].Recipes, 1)
		assert.Equal(t, int64(1), page.Results[0].RecipesCount)
	}

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/users/1/subscribe", fanToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/users/1/subscribe", fanToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIngredientSearch(t *testing.T) {
	app := setupApp(t)

	resp, raw := doJSON(t, app, http.MethodGet, "/api/ingredients?name=fl", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var ingredients []models.Ingredient
	assert.NoError(t, json.Unmarshal(raw, &ingredients))
	if assert.Len(t, ingredients, 1) {
		assert.Equal(t, "Flour", ingredients[0].Name)
	}
}

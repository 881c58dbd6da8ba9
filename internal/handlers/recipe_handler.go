package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/EvgeniyKrainov/foodgram/internal/middleware"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
	"github.com/EvgeniyKrainov/foodgram/internal/repositories"
	"github.com/EvgeniyKrainov/foodgram/internal/services"
)

// RecipeHandler handles recipe CRUD, favorites, the shopping cart and the
// shopping-list download.
type RecipeHandler struct {
	recipeService   *services.RecipeService
	shoppingService *services.ShoppingService
	userService     *services.UserService
	pageSize        int
	validate        *validator.Validate
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(
	recipeService *services.RecipeService,
	shoppingService *services.ShoppingService,
	userService *services.UserService,
	pageSize int,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		shoppingService: shoppingService,
		userService:     userService,
		pageSize:        pageSize,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the recipe routes with the Fiber app.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router, authRequired, optionalAuth fiber.Handler) {
	recipes := router.Group("/recipes")
	recipes.Get("/", optionalAuth, h.HandleListRecipes)
	recipes.Post("/", authRequired, h.HandleCreateRecipe)
	recipes.Get("/download_shopping_cart", authRequired, h.HandleDownloadShoppingCart)
	recipes.Get("/:id", optionalAuth, h.HandleGetRecipe)
	recipes.Patch("/:id", authRequired, h.HandleUpdateRecipe)
	recipes.Delete("/:id", authRequired, h.HandleDeleteRecipe)
	recipes.Get("/:id/get-link", h.HandleGetLink)
	recipes.Post("/:id/favorite", authRequired, h.HandleAddFavorite)
	recipes.Delete("/:id/favorite", authRequired, h.HandleRemoveFavorite)
	recipes.Post("/:id/shopping_cart", authRequired, h.HandleAddToCart)
	recipes.Delete("/:id/shopping_cart", authRequired, h.HandleRemoveFromCart)
}

// detail builds the full output shape for one recipe as seen by the viewer.
func (h *RecipeHandler) detail(viewerID uint, recipe *models.Recipe) RecipeDetail {
	author := NewUserProfile(&recipe.Author, h.userService.IsSubscribed(viewerID, recipe.AuthorID))
	return NewRecipeDetail(
		recipe,
		author,
		h.recipeService.InRelation(repositories.RelationFavorite, viewerID, recipe.ID),
		h.recipeService.InRelation(repositories.RelationShoppingCart, viewerID, recipe.ID),
	)
}

// HandleListRecipes returns a filtered page of recipes.
func (h *RecipeHandler) HandleListRecipes(c *fiber.Ctx) error {
	viewerID := middleware.CurrentUserID(c)

	filter := repositories.RecipeFilter{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", h.pageSize),
	}
	// tags is repeatable (?tags=lunch&tags=dinner); walk the raw args since
	// c.Query only returns the first value.
	c.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		if string(key) == "tags" && len(value) > 0 {
			filter.TagSlugs = append(filter.TagSlugs, string(value))
		}
	})
	if author := c.QueryInt("author", 0); author > 0 {
		filter.AuthorID = uint(author)
	}
	if c.QueryBool("is_favorited", false) && viewerID != 0 {
		filter.FavoritedBy = viewerID
	}
	if c.QueryBool("is_in_shopping_cart", false) && viewerID != 0 {
		filter.InCartOf = viewerID
	}

	recipes, total, err := h.recipeService.List(filter)
	if err != nil {
		return respondError(c, err)
	}

	results := make([]RecipeDetail, 0, len(recipes))
	for i := range recipes {
		results = append(results, h.detail(viewerID, &recipes[i]))
	}
	return c.JSON(Page{Count: total, Results: results})
}

// HandleGetRecipe returns one recipe in its full shape.
func (h *RecipeHandler) HandleGetRecipe(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid recipe id"})
	}
	recipe, err := h.recipeService.Get(uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.detail(middleware.CurrentUserID(c), recipe))
}

// HandleCreateRecipe validates and persists a new recipe authored by the
// requester.
func (h *RecipeHandler) HandleCreateRecipe(c *fiber.Ctx) error {
	var input services.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing recipe request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": validationMessages(err),
		})
	}

	viewerID := middleware.CurrentUserID(c)
	recipe, err := h.recipeService.Create(viewerID, &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.detail(viewerID, recipe))
}

// HandleUpdateRecipe replaces a recipe's fields, ingredient lines and tags.
func (h *RecipeHandler) HandleUpdateRecipe(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid recipe id"})
	}

	var input services.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": validationMessages(err),
		})
	}

	viewerID := middleware.CurrentUserID(c)
	recipe, err := h.recipeService.Update(viewerID, uint(id), &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.detail(viewerID, recipe))
}

// HandleDeleteRecipe removes a recipe; only the author may delete.
func (h *RecipeHandler) HandleDeleteRecipe(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid recipe id"})
	}
	if err := h.recipeService.Delete(middleware.CurrentUserID(c), uint(id)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetLink returns the recipe's public short link.
func (h *RecipeHandler) HandleGetLink(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid recipe id"})
	}
	link, err := h.recipeService.ShortLink(c.BaseURL(), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"short-link": link})
}

// HandleAddFavorite bookmarks a recipe for the requester.
func (h *RecipeHandler) HandleAddFavorite(c *fiber.Ctx) error {
	return h.addRelation(c, repositories.RelationFavorite)
}

// HandleRemoveFavorite removes a bookmark.
func (h *RecipeHandler) HandleRemoveFavorite(c *fiber.Ctx) error {
	return h.removeRelation(c, repositories.RelationFavorite)
}

// HandleAddToCart puts a recipe into the requester's shopping cart.
func (h *RecipeHandler) HandleAddToCart(c *fiber.Ctx) error {
	return h.addRelation(c, repositories.RelationShoppingCart)
}

// HandleRemoveFromCart takes a recipe out of the shopping cart.
func (h *RecipeHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	return h.removeRelation(c, repositories.RelationShoppingCart)
}

func (h *RecipeHandler) addRelation(c *fiber.Ctx, kind repositories.RelationKind) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid recipe id"})
	}
	recipe, err := h.recipeService.AddRelation(kind, middleware.CurrentUserID(c), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(NewRecipeSummary(recipe))
}

func (h *RecipeHandler) removeRelation(c *fiber.Ctx, kind repositories.RelationKind) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid recipe id"})
	}
	if err := h.recipeService.RemoveRelation(kind, middleware.CurrentUserID(c), uint(id)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDownloadShoppingCart aggregates the requester's cart and returns it
// as a text attachment. An empty cart still yields a valid header-only file.
func (h *RecipeHandler) HandleDownloadShoppingCart(c *fiber.Ctx) error {
	items, err := h.shoppingService.BuildShoppingList(middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+services.ShoppingListFilename+`"`)
	return c.SendString(h.shoppingService.RenderShoppingList(items))
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/EvgeniyKrainov/foodgram/internal/services"
)

// CatalogHandler serves the read-only tag and ingredient catalogs.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/tags", h.HandleListTags)
	router.Get("/tags/:id", h.HandleGetTag)
	router.Get("/ingredients", h.HandleListIngredients)
	router.Get("/ingredients/:id", h.HandleGetIngredient)
}

// HandleListTags returns the whole tag catalog, unpaginated.
func (h *CatalogHandler) HandleListTags(c *fiber.Ctx) error {
	tags, err := h.service.Tags()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

// HandleGetTag returns one tag.
func (h *CatalogHandler) HandleGetTag(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid tag id"})
	}
	tag, err := h.service.Tag(uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tag)
}

// HandleListIngredients returns ingredients, filtered by the optional
// ?name= prefix, unpaginated.
func (h *CatalogHandler) HandleListIngredients(c *fiber.Ctx) error {
	ingredients, err := h.service.Ingredients(c.Query("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ingredients)
}

// HandleGetIngredient returns one catalog ingredient.
func (h *CatalogHandler) HandleGetIngredient(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid ingredient id"})
	}
	ingredient, err := h.service.Ingredient(uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ingredient)
}

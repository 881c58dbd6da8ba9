package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/EvgeniyKrainov/foodgram/internal/middleware"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
	"github.com/EvgeniyKrainov/foodgram/internal/services"
)

// UserHandler handles registration, profiles, avatars and subscriptions.
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
	pageSize    int
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, authService *services.AuthService, pageSize int) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		pageSize:    pageSize,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app. Specific
// paths go before the :id routes so fiber matches them first.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authRequired, optionalAuth fiber.Handler) {
	users := router.Group("/users")
	users.Post("/", h.HandleRegister)
	users.Get("/", optionalAuth, h.HandleListUsers)
	users.Get("/me", authRequired, h.HandleMe)
	users.Put("/me/avatar", authRequired, h.HandleSetAvatar)
	users.Delete("/me/avatar", authRequired, h.HandleDeleteAvatar)
	users.Post("/set_password", authRequired, h.HandleSetPassword)
	users.Get("/subscriptions", authRequired, h.HandleSubscriptions)
	users.Get("/:id", optionalAuth, h.HandleGetUser)
	users.Post("/:id/subscribe", authRequired, h.HandleSubscribe)
	users.Delete("/:id/subscribe", authRequired, h.HandleUnsubscribe)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,min=1,max=150"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8"`
}

// HandleRegister creates a new user account.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": validationMessages(err),
		})
	}

	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}
	if err := h.authService.Register(user); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(NewUserProfile(user, false))
}

// HandleListUsers returns one page of users.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	page, limit := h.pagination(c)
	users, total, err := h.userService.List(page, limit)
	if err != nil {
		return respondError(c, err)
	}

	viewerID := middleware.CurrentUserID(c)
	profiles := make([]UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, NewUserProfile(&users[i], h.userService.IsSubscribed(viewerID, users[i].ID)))
	}
	return c.JSON(Page{Count: total, Results: profiles})
}

// HandleMe returns the authenticated user's profile.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.userService.Get(middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(NewUserProfile(user, false))
}

// HandleGetUser returns one user profile.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user id"})
	}
	user, err := h.userService.Get(uint(id))
	if err != nil {
		return respondError(c, err)
	}
	viewerID := middleware.CurrentUserID(c)
	return c.JSON(NewUserProfile(user, h.userService.IsSubscribed(viewerID, user.ID)))
}

// AvatarRequest represents the request body for avatar updates.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

// HandleSetAvatar stores a new avatar for the authenticated user.
func (h *UserHandler) HandleSetAvatar(c *fiber.Ctx) error {
	var req AvatarRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": map[string][]string{"avatar": {"This field is required."}},
		})
	}

	url, err := h.userService.SetAvatar(middleware.CurrentUserID(c), req.Avatar)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"avatar": url})
}

// HandleDeleteAvatar removes the authenticated user's avatar.
func (h *UserHandler) HandleDeleteAvatar(c *fiber.Ctx) error {
	if err := h.userService.DeleteAvatar(middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetPasswordRequest represents the request body for password changes.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// HandleSetPassword changes the authenticated user's password.
func (h *UserHandler) HandleSetPassword(c *fiber.Ctx) error {
	var req SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": validationMessages(err),
		})
	}

	err := h.authService.SetPassword(middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSubscribe follows an author.
func (h *UserHandler) HandleSubscribe(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user id"})
	}
	userID := middleware.CurrentUserID(c)
	author, err := h.userService.Subscribe(userID, uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(NewUserProfile(author, true))
}

// HandleUnsubscribe removes a follow.
func (h *UserHandler) HandleUnsubscribe(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user id"})
	}
	if err := h.userService.Unsubscribe(middleware.CurrentUserID(c), uint(id)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSubscriptions lists followed authors with recipe previews. The
// optional ?recipes_limit= caps each author's preview.
func (h *UserHandler) HandleSubscriptions(c *fiber.Ctx) error {
	recipesLimit := 0
	if raw := c.Query("recipes_limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			recipesLimit = n
		}
	}

	userID := middleware.CurrentUserID(c)
	previews, err := h.userService.Subscriptions(userID, recipesLimit)
	if err != nil {
		return respondError(c, err)
	}

	results := make([]AuthorWithRecipes, 0, len(previews))
	for _, preview := range previews {
		results = append(results, NewAuthorWithRecipes(preview, true))
	}
	return c.JSON(Page{Count: int64(len(results)), Results: results})
}

func (h *UserHandler) pagination(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", h.pageSize)
	if limit < 1 {
		limit = h.pageSize
	}
	return page, limit
}

// validationMessages flattens validator errors into a per-field payload.
func validationMessages(err error) map[string][]string {
	out := make(map[string][]string)
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errs {
			out[e.Field()] = append(out[e.Field()], "failed on the '"+e.Tag()+"' rule")
		}
	}
	return out
}

package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/EvgeniyKrainov/foodgram/internal/apperrors"
	"github.com/EvgeniyKrainov/foodgram/internal/config"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
	"github.com/EvgeniyKrainov/foodgram/internal/repositories"
	"github.com/EvgeniyKrainov/foodgram/pkg/imagestore"
)

// IngredientAmount is one proposed ingredient line in an authoring payload.
type IngredientAmount struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeInput is a candidate recipe payload. Image is a base64 data URI;
// on update an empty Image retains the stored one.
type RecipeInput struct {
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time"`
	Image       string             `json:"image"`
	TagIDs      []uint             `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

// RecipeEventPublisher publishes recipe domain events. A nil publisher
// disables publishing; publish failures never fail the request.
type RecipeEventPublisher interface {
	PublishRecipeCreated(event map[string]interface{}) error
}

// RecipeService validates and persists recipes and manages the favorite and
// shopping-cart relations.
type RecipeService struct {
	recipeRepo   repositories.RecipeRepository
	catalogRepo  repositories.CatalogRepository
	relationRepo repositories.RelationRepository
	images       *imagestore.Store
	events       RecipeEventPublisher
	cfg          *config.Config
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(
	recipeRepo repositories.RecipeRepository,
	catalogRepo repositories.CatalogRepository,
	relationRepo repositories.RelationRepository,
	images *imagestore.Store,
	events RecipeEventPublisher,
	cfg *config.Config,
) *RecipeService {
	return &RecipeService{
		recipeRepo:   recipeRepo,
		catalogRepo:  catalogRepo,
		relationRepo: relationRepo,
		images:       images,
		events:       events,
		cfg:          cfg,
	}
}

// validateInput runs every authoring rule before any write. creating
// switches the image-required rule on.
func (s *RecipeService) validateInput(input *RecipeInput, creating bool) error {
	if len(input.TagIDs) == 0 {
		return apperrors.NewValidation("tags", apperrors.MissingTags,
			"at least one tag is required")
	}
	seenTags := make(map[uint]bool, len(input.TagIDs))
	for _, id := range input.TagIDs {
		if seenTags[id] {
			return apperrors.NewValidation("tags", apperrors.DuplicateTags,
				"tags must not repeat")
		}
		seenTags[id] = true
	}

	if len(input.Ingredients) == 0 {
		return apperrors.NewValidation("ingredients", apperrors.MissingIngredients,
			"at least one ingredient is required")
	}
	seenIngredients := make(map[uint]bool, len(input.Ingredients))
	for _, line := range input.Ingredients {
		if seenIngredients[line.ID] {
			return apperrors.NewValidation("ingredients", apperrors.DuplicateIngredients,
				"ingredients must not repeat")
		}
		seenIngredients[line.ID] = true
	}

	ids := make([]uint, 0, len(input.Ingredients))
	for _, line := range input.Ingredients {
		ids = append(ids, line.ID)
	}
	known, err := s.catalogRepo.IngredientsByIDs(ids)
	if err != nil {
		return err
	}
	knownSet := make(map[uint]bool, len(known))
	for _, ing := range known {
		knownSet[ing.ID] = true
	}
	for _, line := range input.Ingredients {
		if !knownSet[line.ID] {
			return apperrors.NewValidation("ingredients", apperrors.UnknownIngredient,
				"ingredient with id=%d does not exist", line.ID)
		}
	}

	for _, line := range input.Ingredients {
		if !s.cfg.Amount.Contains(line.Amount) {
			return apperrors.NewValidation("ingredients", apperrors.AmountOutOfRange,
				"amount must be between %d and %d", s.cfg.Amount.Min, s.cfg.Amount.Max)
		}
	}

	if !s.cfg.CookingTime.Contains(input.CookingTime) {
		return apperrors.NewValidation("cooking_time", apperrors.CookingTimeOutOfRange,
			"cooking time must be between %d and %d", s.cfg.CookingTime.Min, s.cfg.CookingTime.Max)
	}

	if creating && input.Image == "" {
		return apperrors.NewValidation("image", apperrors.MissingImage,
			"an image is required to create a recipe")
	}

	// Referenced tags must exist in the catalog.
	tags, err := s.catalogRepo.TagsByIDs(input.TagIDs)
	if err != nil {
		return err
	}
	if len(tags) != len(input.TagIDs) {
		return fmt.Errorf("one or more tags do not exist: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (s *RecipeService) buildAssociations(input *RecipeInput) ([]models.RecipeIngredient, []models.Tag, error) {
	tags, err := s.catalogRepo.TagsByIDs(input.TagIDs)
	if err != nil {
		return nil, nil, err
	}
	lines := make([]models.RecipeIngredient, 0, len(input.Ingredients))
	for _, line := range input.Ingredients {
		lines = append(lines, models.RecipeIngredient{
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	return lines, tags, nil
}

// Create validates the payload and persists a new recipe owned by authorID.
// The author comes from the authenticated context, never from the payload.
func (s *RecipeService) Create(authorID uint, input *RecipeInput) (*models.Recipe, error) {
	if err := s.validateInput(input, true); err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(input.Image)
	if err != nil {
		return nil, apperrors.NewValidation("image", apperrors.MissingImage, "%v", err)
	}

	lines, tags, err := s.buildAssociations(input)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:        input.Name,
		Text:        input.Text,
		CookingTime: input.CookingTime,
		Image:       imageURL,
		AuthorID:    authorID,
		Ingredients: lines,
		Tags:        tags,
	}
	if err := s.recipeRepo.Create(recipe); err != nil {
		return nil, err
	}

	if s.events != nil {
		event := map[string]interface{}{
			"recipe_id": recipe.ID,
			"author_id": recipe.AuthorID,
			"name":      recipe.Name,
		}
		if err := s.events.PublishRecipeCreated(event); err != nil {
			log.Printf("Warning: failed to publish recipe created event for recipe %d: %v", recipe.ID, err)
		}
	}

	return s.recipeRepo.GetByID(recipe.ID)
}

// Update validates the payload and replaces the recipe's fields, ingredient
// lines and tag set wholesale. Only the author may update; an omitted image
// retains the stored one.
func (s *RecipeService) Update(requesterID, recipeID uint, input *RecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != requesterID {
		return nil, apperrors.ErrPermissionDenied
	}

	if err := s.validateInput(input, false); err != nil {
		return nil, err
	}

	imageURL := recipe.Image
	if input.Image != "" {
		imageURL, err = s.storeImage(input.Image)
		if err != nil {
			return nil, apperrors.NewValidation("image", apperrors.MissingImage, "%v", err)
		}
	}

	lines, tags, err := s.buildAssociations(input)
	if err != nil {
		return nil, err
	}

	recipe.Name = input.Name
	recipe.Text = input.Text
	recipe.CookingTime = input.CookingTime
	recipe.Image = imageURL
	recipe.Ingredients = lines
	recipe.Tags = tags

	if err := s.recipeRepo.Update(recipe); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(recipe.ID)
}

// storeImage persists a data-URI payload. Payloads that are already stored
// URLs (re-submitted on update) pass through unchanged.
func (s *RecipeService) storeImage(payload string) (string, error) {
	if !strings.HasPrefix(payload, "data:") {
		return payload, nil
	}
	return s.images.Save("recipes", payload)
}

// Get returns one recipe with its associations resolved.
func (s *RecipeService) Get(id uint) (*models.Recipe, error) {
	return s.recipeRepo.GetByID(id)
}

// List returns a filtered page of recipes plus the total match count.
func (s *RecipeService) List(filter repositories.RecipeFilter) ([]models.Recipe, int64, error) {
	if filter.Limit == 0 {
		filter.Limit = s.cfg.PageSize
	}
	return s.recipeRepo.List(filter)
}

// Delete removes a recipe. Only the author may delete.
func (s *RecipeService) Delete(requesterID, recipeID uint) error {
	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != requesterID {
		return apperrors.ErrPermissionDenied
	}
	return s.recipeRepo.Delete(recipeID)
}

// AddRelation puts the recipe into the user's named set (favorite or cart).
func (s *RecipeService) AddRelation(kind repositories.RelationKind, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.relationRepo.Add(kind, userID, recipeID); err != nil {
		return nil, err
	}
	return recipe, nil
}

// RemoveRelation takes the recipe out of the user's named set.
func (s *RecipeService) RemoveRelation(kind repositories.RelationKind, userID, recipeID uint) error {
	if _, err := s.recipeRepo.GetByID(recipeID); err != nil {
		return err
	}
	return s.relationRepo.Remove(kind, userID, recipeID)
}

// InRelation reports whether the recipe is in the user's named set. An
// anonymous requester (userID 0) is never a member.
func (s *RecipeService) InRelation(kind repositories.RelationKind, userID, recipeID uint) bool {
	if userID == 0 {
		return false
	}
	ok, err := s.relationRepo.Exists(kind, userID, recipeID)
	if err != nil {
		log.Printf("Error checking %s relation: %v", kind, err)
		return false
	}
	return ok
}

// ShortLink returns the canonical public link for a recipe.
func (s *RecipeService) ShortLink(baseURL string, recipeID uint) (string, error) {
	if _, err := s.recipeRepo.GetByID(recipeID); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/recipes/%d/", strings.TrimSuffix(baseURL, "/"), recipeID), nil
}

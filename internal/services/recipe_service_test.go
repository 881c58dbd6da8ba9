package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/EvgeniyKrainov/foodgram/internal/apperrors"
	"github.com/EvgeniyKrainov/foodgram/internal/config"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
	"github.com/EvgeniyKrainov/foodgram/internal/repositories"
	"github.com/EvgeniyKrainov/foodgram/internal/services"
	"github.com/EvgeniyKrainov/foodgram/pkg/imagestore"
)

const testImage = "data:image/png;base64,aGVsbG8="

// MockEventPublisher is a mock implementation of services.RecipeEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishRecipeCreated(event map[string]interface{}) error {
	args := m.Called(event)
	return args.Error(0)
}

type recipeFixture struct {
	service   *services.RecipeService
	recipes   *repositories.MockRecipeRepository
	relations *repositories.MockRelationRepository
	events    *MockEventPublisher
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()

	catalog := repositories.NewMockCatalogRepository()
	err := catalog.SeedIngredients([]models.Ingredient{
		{ID: 1, Name: "Flour", MeasurementUnit: "g"},
		{ID: 2, Name: "Sugar", MeasurementUnit: "g"},
		{ID: 3, Name: "Egg", MeasurementUnit: "pcs"},
	})
	assert.NoError(t, err)
	err = catalog.SeedTags([]models.Tag{
		{ID: 1, Name: "Breakfast", Slug: "breakfast"},
		{ID: 2, Name: "Dinner", Slug: "dinner"},
	})
	assert.NoError(t, err)

	relations := repositories.NewMockRelationRepository()
	recipes := repositories.NewMockRecipeRepository(relations)
	relations.AttachRecipes(recipes)

	events := new(MockEventPublisher)
	cfg := &config.Config{
		PageSize:    6,
		Amount:      config.Bounds{Min: 1, Max: 32000},
		CookingTime: config.Bounds{Min: 1, Max: 32000},
	}
	images := imagestore.New(t.TempDir(), "/media")

	return &recipeFixture{
		service:   services.NewRecipeService(recipes, catalog, relations, images, events, cfg),
		recipes:   recipes,
		relations: relations,
		events:    events,
	}
}

func validInput() *services.RecipeInput {
	return &services.RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Image:       testImage,
		TagIDs:      []uint{1},
		Ingredients: []services.IngredientAmount{
			{ID: 1, Amount: 200},
			{ID: 3, Amount: 2},
		},
	}
}

func assertValidationCode(t *testing.T, err error, code apperrors.ValidationCode) {
	t.Helper()
	ve, ok := apperrors.AsValidation(err)
	if assert.True(t, ok, "expected a validation error, got %v", err) {
		assert.Equal(t, code, ve.Code)
	}
}

func TestRecipeService_CreateRejectsMissingTags(t *testing.T) {
	f := newRecipeFixture(t)

	input := validInput()
	input.TagIDs = nil

	_, err := f.service.Create(1, input)
	assertValidationCode(t, err, apperrors.MissingTags)
}

func TestRecipeService_CreateRejectsDuplicateTags(t *testing.T) {
	f := newRecipeFixture(t)

	input := validInput()
	input.TagIDs = []uint{2, 2}

	_, err := f.service.Create(1, input)
	assertValidationCode(t, err, apperrors.DuplicateTags)
}

func TestRecipeService_CreateRejectsMissingIngredients(t *testing.T) {
	f := newRecipeFixture(t)

	input := validInput()
	input.Ingredients = nil

	_, err := f.service.Create(1, input)
	assertValidationCode(t, err, apperrors.MissingIngredients)
}

func TestRecipeService_CreateRejectsDuplicateIngredients(t *testing.T) {
	f := newRecipeFixture(t)

	input := validInput()
	input.Ingredients = []services.IngredientAmount{
		{ID: 1, Amount: 100},
		{ID: 1, Amount: 50},
	}

	_, err := f.service.Create(1, input)
	assertValidationCode(t, err, apperrors.DuplicateIngredients)
}

func TestRecipeService_CreateRejectsUnknownIngredient(t *testing.T) {
	f := newRecipeFixture(t)

	input := validInput()
	input.Ingredients = []services.IngredientAmount{{ID: 99999, Amount: 10}}

	_, err := f.service.Create(1, input)
	assertValidationCode(t, err, apperrors.UnknownIngredient)
	assert.Contains(t, err.Error(), "99999")
}

func TestRecipeService_CreateRejectsAmountOutOfRange(t *testing.T) {
	f := newRecipeFixture(t)

	input := validInput()
	input.Ingredients = []services.IngredientAmount{{ID: 1, Amount: 0}}

	_, err := f.service.Create(1, input)
	assertValidationCode(t, err, apperrors.AmountOutOfRange)
}

func TestRecipeService_CreateRejectsCookingTimeOutOfRange(t *testing.T) {
	f := newRecipeFixture(t)

	input := validInput()
	input.CookingTime = 0

	_, err := f.service.Create(1, input)
	assertValidationCode(t, err, apperrors.CookingTimeOutOfRange)
}

func TestRecipeService_CreateRequiresImage(t *testing.T) {
	f := newRecipeFixture(t)

	input := validInput()
	input.Image = ""

	_, err := f.service.Create(1, input)
	assertValidationCode(t, err, apperrors.MissingImage)
}

func TestRecipeService_CreatePersistsAndPublishes(t *testing.T) {
	f := newRecipeFixture(t)
	f.events.On("PublishRecipeCreated", mock.Anything).Return(nil).Once()

	recipe, err := f.service.Create(1, validInput())
	assert.NoError(t, err)
	assert.NotZero(t, recipe.ID)
	assert.Equal(t, uint(1), recipe.AuthorID)
	assert.Len(t, recipe.Ingredients, 2)
	assert.Len(t, recipe.Tags, 1)
	assert.NotEmpty(t, recipe.Image)
	f.events.AssertExpectations(t)
}

func TestRecipeService_UpdateReplacesIngredientsWholesale(t *testing.T) {
	f := newRecipeFixture(t)
	f.events.On("PublishRecipeCreated", mock.Anything).Return(nil).Once()

	input := validInput()
	input.Ingredients = []services.IngredientAmount{
		{ID: 1, Amount: 100},
		{ID: 2, Amount: 50},
	}
	recipe, err := f.service.Create(1, input)
	assert.NoError(t, err)

	update := validInput()
	update.Image = "" // retained from the stored recipe
	update.Ingredients = []services.IngredientAmount{{ID: 1, Amount: 200}}

	updated, err := f.service.Update(1, recipe.ID, update)
	assert.NoError(t, err)
	assert.Len(t, updated.Ingredients, 1, "old lines must be removed, not retained")
	assert.Equal(t, uint(1), updated.Ingredients[0].IngredientID)
	assert.Equal(t, 200, updated.Ingredients[0].Amount)
	assert.Equal(t, recipe.Image, updated.Image, "omitted image must be retained")
}

func TestRecipeService_UpdateByNonAuthorForbidden(t *testing.T) {
	f := newRecipeFixture(t)
	f.events.On("PublishRecipeCreated", mock.Anything).Return(nil).Once()

	recipe, err := f.service.Create(1, validInput())
	assert.NoError(t, err)

	_, err = f.service.Update(2, recipe.ID, validInput())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = f.service.Delete(2, recipe.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestRecipeService_FavoriteTwiceRejected(t *testing.T) {
	f := newRecipeFixture(t)
	f.events.On("PublishRecipeCreated", mock.Anything).Return(nil).Once()

	recipe, err := f.service.Create(1, validInput())
	assert.NoError(t, err)

	_, err = f.service.AddRelation(repositories.RelationFavorite, 2, recipe.ID)
	assert.NoError(t, err)

	_, err = f.service.AddRelation(repositories.RelationFavorite, 2, recipe.ID)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRelation)

	ids, err := f.relations.RecipeIDs(repositories.RelationFavorite, 2)
	assert.NoError(t, err)
	assert.Len(t, ids, 1, "exactly one favorite row must exist after both attempts")
}

func TestRecipeService_RemoveAbsentRelation(t *testing.T) {
	f := newRecipeFixture(t)
	f.events.On("PublishRecipeCreated", mock.Anything).Return(nil).Once()

	recipe, err := f.service.Create(1, validInput())
	assert.NoError(t, err)

	err = f.service.RemoveRelation(repositories.RelationShoppingCart, 2, recipe.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRecipeService_AddRelationUnknownRecipe(t *testing.T) {
	f := newRecipeFixture(t)

	_, err := f.service.AddRelation(repositories.RelationFavorite, 1, 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

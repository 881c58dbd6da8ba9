package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EvgeniyKrainov/foodgram/internal/apperrors"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
	"github.com/EvgeniyKrainov/foodgram/internal/repositories"
	"github.com/EvgeniyKrainov/foodgram/internal/services"
	"github.com/EvgeniyKrainov/foodgram/pkg/imagestore"
)

type userFixture struct {
	service *services.UserService
	users   *repositories.MockUserRepository
	subs    *repositories.MockSubscriptionRepository
	recipes *repositories.MockRecipeRepository
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	users := repositories.NewMockUserRepository()
	subs := repositories.NewMockSubscriptionRepository(users)
	relations := repositories.NewMockRelationRepository()
	recipes := repositories.NewMockRecipeRepository(relations)
	relations.AttachRecipes(recipes)
	images := imagestore.New(t.TempDir(), "/media")

	for _, u := range []models.User{
		{Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "A"},
		{Username: "bob", Email: "bob@example.com", FirstName: "Bob", LastName: "B"},
	} {
		user := u
		assert.NoError(t, users.Create(&user))
	}

	return &userFixture{
		service: services.NewUserService(users, subs, recipes, images),
		users:   users,
		subs:    subs,
		recipes: recipes,
	}
}

func TestUserService_SubscribeToSelfRejected(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.service.Subscribe(1, 1)
	assert.ErrorIs(t, err, apperrors.ErrSelfReference)

	ok, err := f.subs.Exists(1, 1)
	assert.NoError(t, err)
	assert.False(t, ok, "no subscription row may be created")
}

func TestUserService_SubscribeTwiceRejected(t *testing.T) {
	f := newUserFixture(t)

	author, err := f.service.Subscribe(1, 2)
	assert.NoError(t, err)
	assert.Equal(t, "bob", author.Username)

	_, err = f.service.Subscribe(1, 2)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateRelation)
}

func TestUserService_SubscribeUnknownAuthor(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.service.Subscribe(1, 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_UnsubscribeAbsent(t *testing.T) {
	f := newUserFixture(t)

	err := f.service.Unsubscribe(1, 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserService_SubscriptionsWithRecipePreview(t *testing.T) {
	f := newUserFixture(t)

	for i := 0; i < 3; i++ {
		recipe := &models.Recipe{Name: "dish", AuthorID: 2}
		assert.NoError(t, f.recipes.Create(recipe))
	}

	_, err := f.service.Subscribe(1, 2)
	assert.NoError(t, err)

	previews, err := f.service.Subscriptions(1, 2)
	assert.NoError(t, err)
	if assert.Len(t, previews, 1) {
		assert.Equal(t, "bob", previews[0].Author.Username)
		assert.Len(t, previews[0].Recipes, 2, "recipes_limit caps the preview")
		assert.Equal(t, int64(3), previews[0].RecipesCount)
	}
}

func TestUserService_IsSubscribed(t *testing.T) {
	f := newUserFixture(t)

	assert.False(t, f.service.IsSubscribed(1, 2))

	_, err := f.service.Subscribe(1, 2)
	assert.NoError(t, err)

	assert.True(t, f.service.IsSubscribed(1, 2))
	assert.False(t, f.service.IsSubscribed(0, 2), "anonymous viewers follow nobody")
}

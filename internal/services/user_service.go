package services

import (
	"log"

	"github.com/EvgeniyKrainov/foodgram/internal/apperrors"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
	"github.com/EvgeniyKrainov/foodgram/internal/repositories"
	"github.com/EvgeniyKrainov/foodgram/pkg/imagestore"
)

// UserService handles profiles, avatars and author subscriptions.
type UserService struct {
	userRepo   repositories.UserRepository
	subRepo    repositories.SubscriptionRepository
	recipeRepo repositories.RecipeRepository
	images     *imagestore.Store
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repositories.UserRepository,
	subRepo repositories.SubscriptionRepository,
	recipeRepo repositories.RecipeRepository,
	images *imagestore.Store,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		subRepo:    subRepo,
		recipeRepo: recipeRepo,
		images:     images,
	}
}

// Get returns one user profile.
func (s *UserService) Get(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// List returns one page of users and the total count.
func (s *UserService) List(page, limit int) ([]models.User, int64, error) {
	return s.userRepo.List(page, limit)
}

// IsSubscribed reports whether viewer follows author. An anonymous viewer
// (id 0) follows nobody.
func (s *UserService) IsSubscribed(viewerID, authorID uint) bool {
	if viewerID == 0 {
		return false
	}
	ok, err := s.subRepo.Exists(viewerID, authorID)
	if err != nil {
		log.Printf("Error checking subscription: %v", err)
		return false
	}
	return ok
}

// SetAvatar stores a base64 data-URI avatar and saves its URL on the user.
func (s *UserService) SetAvatar(userID uint, dataURI string) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", err
	}

	url, err := s.images.Save("avatars", dataURI)
	if err != nil {
		return "", err
	}
	if user.Avatar != "" {
		if err := s.images.Remove(user.Avatar); err != nil {
			log.Printf("Warning: failed to remove previous avatar: %v", err)
		}
	}
	user.Avatar = url
	if err := s.userRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}

// DeleteAvatar removes the user's avatar reference and the stored file.
func (s *UserService) DeleteAvatar(userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return nil
	}
	if err := s.images.Remove(user.Avatar); err != nil {
		log.Printf("Warning: failed to remove avatar file: %v", err)
	}
	user.Avatar = ""
	return s.userRepo.Update(user)
}

// Subscribe follows an author. Subscribing to yourself or twice is rejected.
func (s *UserService) Subscribe(userID, authorID uint) (*models.User, error) {
	if userID == authorID {
		return nil, apperrors.ErrSelfReference
	}
	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, err
	}
	if err := s.subRepo.Add(userID, authorID); err != nil {
		return nil, err
	}
	return author, nil
}

// Unsubscribe removes a follow; an absent subscription is ErrNotFound.
func (s *UserService) Unsubscribe(userID, authorID uint) error {
	if _, err := s.userRepo.GetByID(authorID); err != nil {
		return err
	}
	return s.subRepo.Remove(userID, authorID)
}

// AuthorPreview is a followed author with a capped recipe preview, as the
// subscriptions listing renders it.
type AuthorPreview struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

// Subscriptions lists the authors the user follows, each with up to
// recipesLimit of their newest recipes (0 means no cap).
func (s *UserService) Subscriptions(userID uint, recipesLimit int) ([]AuthorPreview, error) {
	authors, err := s.subRepo.Authors(userID)
	if err != nil {
		return nil, err
	}

	previews := make([]AuthorPreview, 0, len(authors))
	for _, author := range authors {
		recipes, err := s.recipeRepo.ByAuthor(author.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		count, err := s.recipeRepo.CountByAuthor(author.ID)
		if err != nil {
			return nil, err
		}
		previews = append(previews, AuthorPreview{
			Author:       author,
			Recipes:      recipes,
			RecipesCount: count,
		})
	}
	return previews, nil
}

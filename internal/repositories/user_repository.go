package repositories

import "github.com/EvgeniyKrainov/foodgram/internal/models"

// UserRepository defines operations for user persistence.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	List(page, limit int) ([]models.User, int64, error)
}

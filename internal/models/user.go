package models

// User represents a registered user. Email is the login identifier.
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Email     string `json:"email" gorm:"uniqueIndex;type:varchar(254)" validate:"required,email,max=254"`
	Username  string `json:"username" gorm:"uniqueIndex;type:varchar(150)" validate:"required,min=1,max=150"`
	FirstName string `json:"first_name" gorm:"type:varchar(150)" validate:"required,max=150"`
	LastName  string `json:"last_name" gorm:"type:varchar(150)" validate:"required,max=150"`
	Password  string `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	Avatar    string `json:"avatar" gorm:"type:varchar(255)"`
}

// Subscribe links a subscriber to an author. A user cannot subscribe to the
// same author twice, and never to themselves (checked in the service layer).
type Subscribe struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_subscribe_pair"`
	AuthorID uint `json:"author_id" gorm:"not null;uniqueIndex:idx_subscribe_pair"`

	User   User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

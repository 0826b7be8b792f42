package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User represents a registered account. The password hash is an opaque
// self-describing record (algorithm, cost, and salt are embedded); it is
// never serialized out. Uniqueness of Username is enforced by the database
// constraint, not by application-level pre-checks.
type User struct {
	BaseModel
	Username     string    `json:"username" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Jokes []Joke `json:"jokes,omitempty" gorm:"foreignKey:JokesterID"`
}

// Joke represents a joke submitted by a logged-in user
type Joke struct {
	BaseModel
	Name       string    `json:"name" gorm:"not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	JokesterID string    `json:"jokester_id" gorm:"not null;index"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Jokester *User `json:"jokester,omitempty" gorm:"foreignKey:JokesterID;references:ID;constraint:OnDelete:CASCADE"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Joke{})
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}

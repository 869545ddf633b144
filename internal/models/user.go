package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Username string    `json:"username" gorm:"not null"`
	Email    string    `json:"email" gorm:"unique;not null"`
	Password string    `json:"-" gorm:"not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Tasks is an association over Task.CreatedBy. Listing always queries
	// tasks by created_by rather than walking this relation, so a task
	// insert never has to touch the user row.
	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:CreatedBy"`
}

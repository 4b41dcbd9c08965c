package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID `db:"id"`
	Username         string    `db:"username"`
	Email            string    `db:"email"`
	Password         string    `db:"password"`
	FullName         string    `db:"full_name"`
	Age              *int      `db:"age"`
	EmergencyContact *string   `db:"emergency_contact"`
	IsActive         bool      `db:"is_active"`
	IsAdmin          bool      `db:"is_admin"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

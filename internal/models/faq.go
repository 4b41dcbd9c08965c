package models

import (
	"time"

	"github.com/google/uuid"
)

// FAQ.Category is a free-text label. It should match a FAQCategory name but
// nothing enforces that.
type FAQ struct {
	ID        uuid.UUID `db:"id"`
	Question  string    `db:"question"`
	Answer    string    `db:"answer"`
	Category  string    `db:"category"`
	Tags      []string  `db:"tags"`
	Priority  int       `db:"priority"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type FAQCategory struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// FAQCategoryCount is a category row joined with the number of FAQs carrying
// its name as their label.
type FAQCategoryCount struct {
	FAQCategory
	FAQCount int
}

type FAQFeedback struct {
	ID           uuid.UUID  `db:"id"`
	FAQID        uuid.UUID  `db:"faq_id"`
	UserID       *uuid.UUID `db:"user_id"`
	Helpful      bool       `db:"helpful"`
	FeedbackText *string    `db:"feedback_text"`
	CreatedAt    time.Time  `db:"created_at"`
}

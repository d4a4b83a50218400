package models

import "time"

// Base is the base model for all entities. IDs are auto-increment integers;
// deletes are hard deletes, so there is no DeletedAt column.
type Base struct {
	ID        uint      `json:"id"       gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
}

// StringSlice is a []string column serialized as JSON.
type StringSlice []string

// QA is a question/answer pair used by book FAQs and the faq page.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

package models

// MessageModel is a contact-form submission.
type MessageModel struct {
	Base
	Name    string `json:"name"    gorm:"not null"`
	Email   string `json:"email"   gorm:"not null"`
	Message string `json:"message" gorm:"type:longtext;not null"`
	IsRead  bool   `json:"is_read" gorm:"default:false;index"`
}

func (MessageModel) TableName() string { return "messages" }

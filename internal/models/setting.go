package models

// SettingModel is a key-value row holding a JSON blob per settings section
// (general, seo, appearance, integrations).
type SettingModel struct {
	Base
	Key   string `json:"key"   gorm:"uniqueIndex;not null"`
	Value string `json:"value" gorm:"type:longtext"` // JSON-encoded section
}

func (SettingModel) TableName() string { return "settings" }

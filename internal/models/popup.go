package models

// PopupAdModel is a dashboard-managed popup. At most one ad is active at a
// time; activation deactivates the rest.
type PopupAdModel struct {
	Base
	Name            string `json:"name"             gorm:"not null"`
	Content         string `json:"content"          gorm:"type:longtext"` // raw HTML, scripts stripped on render
	DisplayDelay    int    `json:"display_delay"    gorm:"default:0"`     // seconds
	DisplayDuration int    `json:"display_duration" gorm:"default:0"`     // seconds, 0 = until dismissed
	IsActive        bool   `json:"is_active"        gorm:"default:false;index"`
}

func (PopupAdModel) TableName() string { return "popup_ads" }

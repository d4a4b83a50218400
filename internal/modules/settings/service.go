package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/libribooks/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errUnknownSection = fmt.Errorf("unknown settings section")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func knownSection(section string) bool {
	for _, s := range Sections {
		if s == section {
			return true
		}
	}
	return false
}

// Get returns a section with stored values merged over the defaults.
func (s *Service) Get(section string) (map[string]interface{}, error) {
	if !knownSection(section) {
		return nil, errUnknownSection
	}
	base := defaults()[section]

	var row models.SettingModel
	err := s.db.Where("`key` = ?", section).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return base, nil
	}
	if err != nil {
		return nil, err
	}

	stored := map[string]interface{}{}
	if row.Value != "" {
		if err := json.Unmarshal([]byte(row.Value), &stored); err != nil {
			return nil, fmt.Errorf("settings: corrupt %q section: %w", section, err)
		}
	}
	return deepMerge(base, stored), nil
}

// GetAll returns every section, each merged over its defaults.
func (s *Service) GetAll() (map[string]map[string]interface{}, error) {
	out := make(map[string]map[string]interface{}, len(Sections))
	for _, section := range Sections {
		merged, err := s.Get(section)
		if err != nil {
			return nil, err
		}
		out[section] = merged
	}
	return out, nil
}

// Update merges the patch into the stored section and persists it. Returns
// the full merged section.
func (s *Service) Update(section string, patch map[string]interface{}) (map[string]interface{}, error) {
	if !knownSection(section) {
		return nil, errUnknownSection
	}

	var row models.SettingModel
	stored := map[string]interface{}{}
	err := s.db.Where("`key` = ?", section).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && row.Value != "" {
		if uerr := json.Unmarshal([]byte(row.Value), &stored); uerr != nil {
			return nil, fmt.Errorf("settings: corrupt %q section: %w", section, uerr)
		}
	}

	merged := deepMerge(stored, patch)
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.SettingModel{Key: section, Value: string(raw)}).Error
	if err != nil {
		return nil, err
	}
	return deepMerge(defaults()[section], merged), nil
}

// MailConfig decodes the integrations mail block for the SMTP sender.
func (s *Service) MailConfig() (map[string]interface{}, string, error) {
	integrations, err := s.Get(SectionIntegrations)
	if err != nil {
		return nil, "", err
	}
	mailCfg, _ := integrations["mail"].(map[string]interface{})
	notifyEmail, _ := integrations["notify_email"].(string)
	return mailCfg, notifyEmail, nil
}

// SiteURL returns the configured site base URL, for sitemap generation.
func (s *Service) SiteURL() (string, error) {
	general, err := s.Get(SectionGeneral)
	if err != nil {
		return "", err
	}
	url, _ := general["site_url"].(string)
	return url, nil
}

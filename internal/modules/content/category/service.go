package category

import (
	"errors"
	"fmt"

	"github.com/libribooks/core/internal/models"
	"gorm.io/gorm"
)

type CreateCategoryDTO struct {
	Name          string `json:"name" binding:"required"`
	Slug          string `json:"slug" binding:"required"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	PillarContent string `json:"pillarContent"`
	CoverImage    string `json:"coverImage"`
}

type UpdateCategoryDTO struct {
	Name          *string `json:"name"`
	Slug          *string `json:"slug"`
	Description   *string `json:"description"`
	Icon          *string `json:"icon"`
	PillarContent *string `json:"pillarContent"`
	CoverImage    *string `json:"coverImage"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List() ([]models.CategoryModel, error) {
	var cats []models.CategoryModel
	return cats, s.db.Order("name ASC").Find(&cats).Error
}

func (s *Service) GetByID(id uint) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

// GetByQuery resolves a category by slug or name.
func (s *Service) GetByQuery(query string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.Where("slug = ? OR name = ?", query, query).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (s *Service) Create(dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	var count int64
	s.db.Model(&models.CategoryModel{}).Where("slug = ? OR name = ?", dto.Slug, dto.Name).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("name or slug already exists")
	}

	cat := models.CategoryModel{
		Name:          dto.Name,
		Slug:          dto.Slug,
		Description:   dto.Description,
		Icon:          dto.Icon,
		PillarContent: dto.PillarContent,
		CoverImage:    dto.CoverImage,
	}
	return &cat, s.db.Create(&cat).Error
}

func (s *Service) Update(id uint, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	cat, err := s.GetByID(id)
	if err != nil || cat == nil {
		return cat, err
	}
	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Slug != nil {
		updates["slug"] = *dto.Slug
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Icon != nil {
		updates["icon"] = *dto.Icon
	}
	if dto.PillarContent != nil {
		updates["pillar_content"] = *dto.PillarContent
	}
	if dto.CoverImage != nil {
		updates["cover_image_url"] = *dto.CoverImage
	}
	return cat, s.db.Model(cat).Updates(updates).Error
}

// Delete removes a category; books and skills pointing at it are detached,
// not deleted.
func (s *Service) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BookModel{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.SkillModel{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CategoryModel{}, "id = ?", id).Error
	})
}

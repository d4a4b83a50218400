package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/libribooks/core/internal/models"
	"github.com/libribooks/core/internal/pkg/jwt"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	errBadCredentials = fmt.Errorf("invalid email or password")
	errEmailExists    = fmt.Errorf("email already registered")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Login verifies credentials and issues a JWT. Records last-login metadata
// best-effort.
func (s *Service) Login(email, password, ip string) (string, *models.UserModel, error) {
	var u models.UserModel
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, errBadCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", nil, errBadCredentials
	}

	token, err := jwt.Sign(u.ID, jwt.DefaultTTL)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	if err := s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": now,
		"last_login_ip":   ip,
	}).Error; err != nil {
		zap.L().Warn("failed to record login metadata", zap.Error(err))
	}
	u.LastLoginTime = &now
	u.LastLoginIP = ip
	return token, &u, nil
}

func (s *Service) List() ([]models.UserModel, error) {
	var users []models.UserModel
	return users, s.db.Order("id ASC").Find(&users).Error
}

func (s *Service) GetByID(id uint) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Role returns the user's dashboard role. Missing users and blank roles
// fall back to editor.
func (s *Service) Role(id uint) string {
	u, err := s.GetByID(id)
	if err != nil || u == nil || u.Role == "" {
		return models.RoleEditor
	}
	return u.Role
}

func (s *Service) Create(dto *CreateUserDTO) (*models.UserModel, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	var count int64
	s.db.Model(&models.UserModel{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, errEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := dto.Role
	if role == "" {
		role = models.RoleEditor
	}
	u := models.UserModel{
		Name:     dto.Name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	return &u, s.db.Create(&u).Error
}

func (s *Service) Update(id uint, dto *UpdateUserDTO) (*models.UserModel, error) {
	u, err := s.GetByID(id)
	if err != nil || u == nil {
		return u, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*dto.Email))
		if email != u.Email {
			var count int64
			s.db.Model(&models.UserModel{}).Where("email = ? AND id <> ?", email, id).Count(&count)
			if count > 0 {
				return nil, errEmailExists
			}
		}
		updates["email"] = email
	}
	if dto.Role != nil {
		updates["role"] = *dto.Role
	}
	if dto.Password != nil && *dto.Password != "" {
		hash, herr := bcrypt.GenerateFromPassword([]byte(*dto.Password), bcrypt.DefaultCost)
		if herr != nil {
			return nil, herr
		}
		updates["password"] = string(hash)
	}

	if len(updates) > 0 {
		if err := s.db.Model(u).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

func (s *Service) Delete(id uint) error {
	return s.db.Delete(&models.UserModel{}, id).Error
}

// EnsureSeedAdmin creates the initial admin account when the users table is
// empty, so a fresh install is reachable.
func (s *Service) EnsureSeedAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	var count int64
	if err := s.db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := s.Create(&CreateUserDTO{
		Name:     "Admin",
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err == nil {
		zap.L().Info("seeded initial admin account", zap.String("email", email))
	}
	return err
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// Register creates a user with a bcrypt-hashed password plus its profile,
// and returns the user with a signed token.
func (s *AuthService) Register(ctx context.Context, email, password, username string) (*models.User, string, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, "", ErrEmailTaken
	}
	var existingProfile models.UserProfile
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&existingProfile).Error; err == nil {
		return nil, "", ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.UserProfile{
			UserID:   user.ID,
			Username: username,
			Email:    email,
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(user.ID, username)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login verifies the credentials and returns the user, its profile and a
// signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *models.UserProfile, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, "", ErrInvalidCredentials
	}

	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return nil, nil, "", err
	}

	token, err := s.generateToken(user.ID, profile.Username)
	if err != nil {
		return nil, nil, "", err
	}
	return &user, &profile, token, nil
}

// GetProfile returns the profile for a user id.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *AuthService) generateToken(userID uuid.UUID, username string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID.String(),
		"username": username,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userIDStr, ok := claims["user_id"].(string)
		if !ok {
			return nil, errors.New("invalid token claims")
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return nil, err
		}

		username, _ := claims["username"].(string)

		return &types.TokenClaims{
			UserID:   userID,
			Username: username,
		}, nil
	}

	return nil, errors.New("invalid token")
}

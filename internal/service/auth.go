package service

import (
	"context" // Request context
	"strings" // Email normalization

	"blog_system/internal/apperr" // Error kinds
	"blog_system/internal/domain" // Persistent models
	"blog_system/internal/utils"  // Token issuing

	"github.com/sirupsen/logrus" // Logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // ORM
)

// AuthService exchanges credentials for bearer tokens.
type AuthService struct {
	db     *gorm.DB
	tokens utils.TokenOptions
}

// NewAuthService creates an AuthService issuing tokens with the given options
func NewAuthService(db *gorm.DB, tokens utils.TokenOptions) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// Login checks the password of the account with the given email and
// issues a token for it.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if isNotFound(err) {
		return "", invalidCredentials()
	} else if err != nil {
		return "", dbError(err, "find user")
	}
	// Compare provided password with stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)); err != nil {
		logrus.WithField("user_id", user.ID).Warn("Failed login")
		return "", invalidCredentials()
	}
	token, err := utils.GenerateJWT(user.ID, user.Email, s.tokens)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrInternal, err, "Failed to generate token")
	}
	logrus.WithField("user_id", user.ID).Info("User logged in")
	return token, nil
}

func invalidCredentials() error {
	return apperr.New(apperr.ErrUnauthorized, "Invalid credentials")
}

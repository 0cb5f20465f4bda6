package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userModel "github.com/nothotgamer/hostelixpro/internals/features/users/model"
	userRepo "github.com/nothotgamer/hostelixpro/internals/features/users/repository"
	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
)

const accessTTLDefault = 12 * time.Hour

var errBadCredentials = apperr.Unauthorized("Invalid email or password")

// LoginService checks credentials and issues the HS256 access token that
// the AuthJWT middleware verifies.
type LoginService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewLoginService(db *gorm.DB, secret string, ttl time.Duration) *LoginService {
	if ttl <= 0 {
		ttl = accessTTLDefault
	}
	return &LoginService{db: db, secret: []byte(secret), ttl: ttl, now: time.Now}
}

type LoginResult struct {
	AccessToken string               `json:"access_token"`
	ExpiresAt   int64                `json:"expires_at"`
	User        *userModel.UserModel `json:"user"`
}

func (s *LoginService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := userRepo.FindUserByEmail(ctx, s.db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	if user.UserIsLocked {
		return nil, apperr.Unauthorized("Account is locked, contact the admin")
	}

	token, exp, err := s.issue(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{AccessToken: token, ExpiresAt: exp.UnixMilli(), User: user}, nil
}

func (s *LoginService) issue(user *userModel.UserModel) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"typ":       "access",
		"sub":       user.UserID.String(),
		"id":        user.UserID.String(),
		"role":      strings.ToLower(user.UserRole),
		"full_name": user.UserFullName,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return signed, exp, err
}

// HashPassword is used by the seeder and account tooling.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

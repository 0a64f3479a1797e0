package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stackcare/stackcare-backend/internal/data/repos"
	"github.com/stackcare/stackcare-backend/internal/pkg/ctxutil"
	"github.com/stackcare/stackcare-backend/internal/pkg/env"
	"github.com/stackcare/stackcare-backend/internal/pkg/errors"
	"github.com/stackcare/stackcare-backend/internal/pkg/logger"
	"github.com/stackcare/stackcare-backend/internal/types"
)

const minPasswordLength = 8

// AuthService issues and verifies the HS256 bearer tokens the API runs on.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*types.User, string, error)
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	// ParseToken verifies the signature and expiry and returns the caller
	// identity embedded in the token.
	ParseToken(tokenString string) (*ctxutil.RequestData, error)
}

type authClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) (AuthService, error) {
	secret := env.Get("JWT_SECRET", "", log)
	if secret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}
	ttlHours := env.GetAsInt("JWT_TTL_HOURS", 72, log)
	return &authService{
		db:       db,
		log:      log.With("service", "AuthService"),
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: time.Duration(ttlHours) * time.Hour,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (as *authService) Register(ctx context.Context, email, password, name string) (*types.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: a valid email is required", errors.ErrInvalidArgument)
	}
	if len(password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", errors.ErrInvalidArgument, minPasswordLength)
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, "", fmt.Errorf("%w: email already registered", errors.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := as.userRepo.Create(ctx, nil, &types.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
		Role:         types.RoleUser,
	})
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := as.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	as.log.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	user, err := as.userRepo.GetByEmail(ctx, nil, normalizeEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("load user: %w", err)
	}
	// A missing account and a wrong password produce the same error.
	if user == nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", errors.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", errors.ErrUnauthorized)
	}

	token, err := as.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (as *authService) issueToken(user *types.User) (string, error) {
	now := time.Now()
	claims := authClaims{
		UserID: user.ID.String(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) ParseToken(tokenString string) (*ctxutil.RequestData, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return as.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", errors.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token subject", errors.ErrUnauthorized)
	}
	role := claims.Role
	if role == "" {
		role = types.RoleUser
	}
	return &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Role:        role,
	}, nil
}

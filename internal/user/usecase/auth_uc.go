package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	listingdomain "github.com/unimarket/listing-service/internal/listing/domain"
	"github.com/unimarket/listing-service/internal/platform/logger"
	"github.com/unimarket/listing-service/internal/user/domain"
)

const tokenTTL = 24 * time.Hour

// TokenCache keeps the active session token per user so sign-out can
// invalidate it.
type TokenCache interface {
	StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error
	InvalidateToken(ctx context.Context, userID string) error
}

// Claims is the JWT payload issued at sign-in.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	University string
	Phone      string
	Location   string
	Photo      []byte // optional profile photo
}

// AuthUsecase handles account creation and sessions: bcrypt-hashed
// passwords in the user document, JWT session tokens, Redis-backed
// invalidation on sign-out.
type AuthUsecase struct {
	repo      domain.UserRepository
	tokens    TokenCache
	storage   listingdomain.Storage
	jwtSecret string
	logger    *logger.Logger
}

func NewAuthUsecase(repo domain.UserRepository, tokens TokenCache, storage listingdomain.Storage, jwtSecret string, log *logger.Logger) *AuthUsecase {
	return &AuthUsecase{
		repo:      repo,
		tokens:    tokens,
		storage:   storage,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

// Register creates the account, uploads the optional profile photo and
// signs the new user in.
func (uc *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	if in.Email == "" || in.Password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	existing, err := uc.repo.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		uc.logger.Error("AuthUsecase.Register: lookup by email failed", "email", in.Email, "error", err.Error())
		return nil, "", fmt.Errorf("registration failed: %w", err)
	}
	if existing != nil {
		return nil, "", domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("registration failed: %w", err)
	}

	id := uc.repo.NewID()

	photoURL := ""
	if len(in.Photo) > 0 {
		objectPath := fmt.Sprintf("profile_images/%s/%d.jpg", id, time.Now().UnixMilli())
		photoURL, err = uc.storage.Upload(ctx, objectPath, in.Photo)
		if err != nil {
			uc.logger.Error("AuthUsecase.Register: profile photo upload failed", "user_id", id, "error", err.Error())
			return nil, "", fmt.Errorf("failed to upload profile photo: %w", err)
		}
	}

	user := &domain.User{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		University:   in.University,
		PhotoURL:     photoURL,
		Phone:        in.Phone,
		Location:     in.Location,
		RegisteredAt: time.Now(),
	}

	if err := uc.repo.Create(ctx, user); err != nil {
		uc.logger.Error("AuthUsecase.Register: failed to create user", "email", in.Email, "error", err.Error())
		return nil, "", fmt.Errorf("registration failed: %w", err)
	}

	token, err := uc.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	uc.logger.Info("AuthUsecase.Register: user registered", "user_id", user.ID)
	return user, token, nil
}

// Login verifies the password and issues a fresh session token.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		uc.logger.Error("AuthUsecase.Login: lookup by email failed", "email", email, "error", err.Error())
		return nil, "", fmt.Errorf("sign-in failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := uc.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	uc.logger.Info("AuthUsecase.Login: user signed in", "user_id", user.ID)
	return user, token, nil
}

// Logout drops the cached session token.
func (uc *AuthUsecase) Logout(ctx context.Context, userID string) error {
	if uc.tokens == nil {
		return nil
	}
	if err := uc.tokens.InvalidateToken(ctx, userID); err != nil {
		uc.logger.Error("AuthUsecase.Logout: failed to invalidate token", "user_id", userID, "error", err.Error())
		return fmt.Errorf("sign-out failed: %w", err)
	}
	return nil
}

func (uc *AuthUsecase) issueToken(ctx context.Context, userID string) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.jwtSecret))
	if err != nil {
		uc.logger.Error("AuthUsecase: failed to sign token", "user_id", userID, "error", err.Error())
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	if uc.tokens != nil {
		if err := uc.tokens.StoreToken(ctx, userID, token, tokenTTL); err != nil {
			uc.logger.Warn("AuthUsecase: failed to cache token", "user_id", userID, "error", err.Error())
		}
	}
	return token, nil
}

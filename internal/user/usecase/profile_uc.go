package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	listingdomain "github.com/unimarket/listing-service/internal/listing/domain"
	"github.com/unimarket/listing-service/internal/platform/logger"
	"github.com/unimarket/listing-service/internal/user/domain"
)

// ProfileUsecase reads and edits user profiles. Listings that snapshotted a
// seller's profile are not touched by profile edits.
type ProfileUsecase struct {
	repo    domain.UserRepository
	storage listingdomain.Storage
	logger  *logger.Logger
}

func NewProfileUsecase(repo domain.UserRepository, storage listingdomain.Storage, log *logger.Logger) *ProfileUsecase {
	return &ProfileUsecase{repo: repo, storage: storage, logger: log}
}

func (uc *ProfileUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		uc.logger.Error("ProfileUsecase.GetProfile: failed to fetch user", "user_id", userID, "error", err.Error())
		return nil, fmt.Errorf("failed to load the profile: %w", err)
	}
	return user, nil
}

func (uc *ProfileUsecase) UpdateProfile(ctx context.Context, userID string, patch domain.UserPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	if err := uc.repo.UpdateFields(ctx, userID, patch); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		uc.logger.Error("ProfileUsecase.UpdateProfile: failed to update user", "user_id", userID, "error", err.Error())
		return fmt.Errorf("failed to update the profile: %w", err)
	}
	return nil
}

// UpdateProfilePhoto uploads the photo under a timestamp-derived name, so
// repeated uploads never collide, and writes the URL into the profile.
func (uc *ProfileUsecase) UpdateProfilePhoto(ctx context.Context, userID string, data []byte) (string, error) {
	objectPath := fmt.Sprintf("profile_images/%s/%d.jpg", userID, time.Now().UnixMilli())

	url, err := uc.storage.Upload(ctx, objectPath, data)
	if err != nil {
		uc.logger.Error("ProfileUsecase.UpdateProfilePhoto: upload failed", "user_id", userID, "error", err.Error())
		return "", fmt.Errorf("failed to upload profile photo: %w", err)
	}

	if err := uc.repo.UpdateFields(ctx, userID, domain.UserPatch{PhotoURL: &url}); err != nil {
		uc.logger.Error("ProfileUsecase.UpdateProfilePhoto: failed to save photo URL", "user_id", userID, "error", err.Error())
		return "", fmt.Errorf("failed to update profile photo: %w", err)
	}

	uc.logger.Info("ProfileUsecase.UpdateProfilePhoto: photo updated", "user_id", userID)
	return url, nil
}

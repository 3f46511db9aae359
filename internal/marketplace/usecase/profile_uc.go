package usecase

import (
	"context"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/validation"
	"go.uber.org/zap"
)

const profileFolder = "profile"

// ProfileInput is the edit profile form. An empty username keeps the
// current one.
type ProfileInput struct {
	Username string `form:"username" validate:"omitempty,min=4"`
}

var profileMessages = validation.Messages{
	"username.min": "Full name must be at least 4 characters long",
}

type ProfileUsecase struct {
	users     domain.UserRepository
	storage   domain.ImageStorage
	janitor   domain.ImageJanitor
	validator *validation.Validator
	logger    *logger.Logger
}

func NewProfileUsecase(users domain.UserRepository, storage domain.ImageStorage, janitor domain.ImageJanitor, log *logger.Logger) *ProfileUsecase {
	return &ProfileUsecase{
		users:     users,
		storage:   storage,
		janitor:   janitor,
		validator: validation.New(),
		logger:    log.Named("ProfileUsecase"),
	}
}

// EditProfile updates the username and, when image is given, the profile
// picture. The replaced picture is handed to the janitor unless it is the
// default or lives outside the configured storage.
func (uc *ProfileUsecase) EditProfile(ctx context.Context, user *domain.User, in ProfileInput, image *domain.Upload) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "ProfileUsecase.EditProfile")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	errs, err := uc.validator.Struct(in, profileMessages)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationError(validation.MessagesOf(errs)...)
	}

	username := user.Username
	if in.Username != "" {
		username = in.Username
	}

	var newPic string
	if image != nil {
		newPic, err = uc.storage.Save(ctx, profileFolder, *image)
		if err != nil {
			recordErr(span, err)
			uc.logger.Error("Failed to store profile picture", zap.String("user_id", user.ID), zap.Error(err))
			return nil, err
		}
	}

	if err := uc.users.UpdateProfile(ctx, user.ID, username, newPic); err != nil {
		recordErr(span, err)
		uc.logger.Error("Failed to update profile", zap.String("user_id", user.ID), zap.Error(err))
		if newPic != "" {
			discardImages(uc.storage, uc.logger, []string{newPic})
		}
		return nil, err
	}

	oldPic := user.ProfilePic
	user.Username = username
	if newPic != "" {
		user.ProfilePic = newPic
		if oldPic != "" && oldPic != domain.DefaultProfilePic && uc.storage.Owns(oldPic) {
			if err := uc.janitor.Enqueue(ctx, oldPic); err != nil {
				uc.logger.Warn("Failed to schedule old profile picture deletion", zap.String("ref", oldPic), zap.Error(err))
			}
		}
	}

	uc.logger.Info("Profile updated", zap.String("user_id", user.ID), zap.Bool("picture_changed", newPic != ""))
	return user, nil
}

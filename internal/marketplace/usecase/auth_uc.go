package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SignupInput is the signup form as submitted.
type SignupInput struct {
	Username string `form:"username" validate:"required,min=4"`
	MobileNo string `form:"mobileno" validate:"required,len=10,digits"`
	Password string `form:"password" validate:"required,min=6,maxbytes=72"`
}

// LoginInput is the login form as submitted.
type LoginInput struct {
	MobileNo string `form:"mobileno" validate:"required,len=10,digits"`
	Password string `form:"password" validate:"required"`
}

var authMessages = validation.Messages{
	"username.required": "Full name is required",
	"username.min":      "Full name must be at least 4 characters long",
	"mobileno.required": "Mobile number is required",
	"mobileno.len":      "Mobile number must be 10 digits long",
	"mobileno.digits":   "Mobile number must contain only numbers",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters long",
	"password.maxbytes": "Password must be at most 72 bytes long",
}

// AuthUsecase implements signup, login and session user lookup.
type AuthUsecase struct {
	users      domain.UserRepository
	publisher  domain.EventPublisher
	metrics    Metrics
	validator  *validation.Validator
	bcryptCost int
	// dummyHash is compared against when the mobile number is unknown so
	// both login failures cost one bcrypt comparison.
	dummyHash []byte
	logger    *logger.Logger
	now       func() time.Time
}

func NewAuthUsecase(users domain.UserRepository, publisher domain.EventPublisher, metrics Metrics, bcryptCost int, log *logger.Logger) *AuthUsecase {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("marketplace-login-placeholder"), bcryptCost)
	return &AuthUsecase{
		users:      users,
		publisher:  publisher,
		metrics:    metricsOrNop(metrics),
		validator:  validation.New(),
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
		logger:     log.Named("AuthUsecase"),
		now:        time.Now,
	}
}

// Signup validates the form and creates the account. A taken mobile number
// yields domain.ErrMobileTaken.
func (uc *AuthUsecase) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "AuthUsecase.Signup")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	in.MobileNo = strings.TrimSpace(in.MobileNo)

	if err := uc.validate(in); err != nil {
		return nil, err
	}
	mobile, _ := strconv.ParseInt(in.MobileNo, 10, 64)

	existing, err := uc.users.FindByMobile(ctx, mobile)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrMobileTaken
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		recordErr(span, err)
		uc.logger.Error("Failed to check mobile number", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.NewValidationError(authMessages["password.maxbytes"])
		}
		recordErr(span, err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		MobileNo:     mobile,
		PasswordHash: string(hash),
		ProfilePic:   domain.DefaultProfilePic,
		Favorites:    []domain.FavoriteRef{},
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrMobileTaken) {
			recordErr(span, err)
			uc.logger.Error("Failed to create user", zap.Error(err))
		}
		return nil, err
	}

	uc.metrics.Signup()
	publish(ctx, uc.publisher, uc.logger, domain.SubjectUserSignedUp, domain.UserSignedUpEvent{
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
	uc.logger.Info("User signed up", zap.String("user_id", user.ID))
	return user, nil
}

// Login checks the credentials. An unknown mobile number and a wrong
// password both return domain.ErrInvalidCredentials.
func (uc *AuthUsecase) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "AuthUsecase.Login")
	defer span.End()

	in.MobileNo = strings.TrimSpace(in.MobileNo)
	if err := uc.validate(in); err != nil {
		return nil, err
	}
	mobile, _ := strconv.ParseInt(in.MobileNo, 10, 64)

	user, err := uc.users.FindByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(uc.dummyHash, []byte(in.Password))
			uc.metrics.Login(false)
			return nil, domain.ErrInvalidCredentials
		}
		recordErr(span, err)
		uc.logger.Error("Failed to look up user", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.metrics.Login(false)
		return nil, domain.ErrInvalidCredentials
	}

	uc.metrics.Login(true)
	uc.logger.Info("User logged in", zap.String("user_id", user.ID))
	return user, nil
}

// CurrentUser loads the user behind a session. A deleted user counts as no
// session at all.
func (uc *AuthUsecase) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

func (uc *AuthUsecase) validate(in any) error {
	errs, err := uc.validator.Struct(in, authMessages)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return domain.NewValidationError(validation.MessagesOf(errs)...)
	}
	return nil
}

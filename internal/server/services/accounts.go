package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/logging"
	"github.com/dmitrijs2005/vidstream/internal/server/auth"
	"github.com/dmitrijs2005/vidstream/internal/server/media"
	"github.com/dmitrijs2005/vidstream/internal/server/models"
	"github.com/dmitrijs2005/vidstream/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/vidstream/internal/server/repositories/users"
	"github.com/google/uuid"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)

// RegisterInput carries a registration request. The paths point at staged
// uploads; the service takes ownership of those files.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     media.Storage
	logger      logging.Logger
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, storage media.Storage, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		storage:     storage,
		logger:      logger.With("module", "accounts"),
	}
}

// Register validates the input, uploads the avatar (and cover image, if
// any), hashes the password and inserts the user. Uploaded objects are
// deleted again when the insert fails.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error) {
	staged := []string{in.AvatarPath, in.CoverImagePath}

	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))

	if err := s.validateRegistration(in); err != nil {
		discard(staged...)
		return nil, err
	}

	users := s.repomanager.Users(s.db)
	for _, identifier := range []string{in.Username, in.Email} {
		_, err := users.FindByIdentifier(ctx, identifier)
		if err == nil {
			discard(staged...)
			return nil, common.ErrAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			discard(staged...)
			return nil, storageErr(err)
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		discard(staged...)
		return nil, fmt.Errorf("hash password: %w", errors.Join(common.ErrorInternal, err))
	}

	avatar, err := s.storage.Upload(ctx, in.AvatarPath, media.FolderAvatars)
	if err != nil {
		discard(in.CoverImagePath)
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	var cover media.Object
	if in.CoverImagePath != "" {
		cover, err = s.storage.Upload(ctx, in.CoverImagePath, media.FolderCovers)
		if err != nil {
			s.deleteObjects(ctx, avatar.Key)
			return nil, fmt.Errorf("upload cover image: %w", err)
		}
	}

	user, err := users.Create(ctx, &models.User{
		ID:            uuid.NewString(),
		UserName:      in.Username,
		Email:         in.Email,
		FullName:      in.FullName,
		AvatarURL:     avatar.URL,
		AvatarKey:     avatar.Key,
		CoverImageURL: cover.URL,
		CoverImageKey: cover.Key,
		PasswordHash:  hash,
	})
	if err != nil {
		s.deleteObjects(ctx, avatar.Key, cover.Key)
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, storageErr(err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user.Public(), nil
}

func (s *AccountService) validateRegistration(in RegisterInput) error {
	if in.FullName == "" || in.Email == "" || in.Username == "" || in.Password == "" {
		return fmt.Errorf("%w: all fields are required", common.ErrInvalidInput)
	}
	if !usernamePattern.MatchString(in.Username) {
		return fmt.Errorf("%w: username must be 3-32 characters of a-z, 0-9, '_', '.', '-'", common.ErrInvalidInput)
	}
	if !strings.Contains(in.Email, "@") {
		return fmt.Errorf("%w: malformed email", common.ErrInvalidInput)
	}
	if err := validatePassword(in.Password); err != nil {
		return fmt.Errorf("%w: password must be 8 to 72 bytes long", err)
	}
	if in.AvatarPath == "" {
		return fmt.Errorf("%w: avatar file is required", common.ErrInvalidInput)
	}
	if err := media.FitImage(in.AvatarPath, media.AvatarMaxSide, media.AvatarMaxSide); err != nil {
		return fmt.Errorf("%w: avatar: %v", common.ErrInvalidInput, err)
	}
	if in.CoverImagePath != "" {
		if err := media.FitImage(in.CoverImagePath, media.CoverMaxWidth, media.CoverMaxHeight); err != nil {
			return fmt.Errorf("%w: cover image: %v", common.ErrInvalidInput, err)
		}
	}
	return nil
}

func (s *AccountService) CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users(s.db).FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, storageErr(err)
	}
	return user.Public(), nil
}

func (s *AccountService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.PublicUser, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" {
		return nil, fmt.Errorf("%w: full name and email are required", common.ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: malformed email", common.ErrInvalidInput)
	}

	user, err := s.repomanager.Users(s.db).UpdateAccount(ctx, userID, fullName, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, storageErr(err)
	}
	return user.Public(), nil
}

func (s *AccountService) UpdateAvatar(ctx context.Context, userID, path string) (*models.PublicUser, error) {
	return s.replaceImage(ctx, userID, path, imageSlot{
		folder: media.FolderAvatars,
		maxW:   media.AvatarMaxSide,
		maxH:   media.AvatarMaxSide,
		oldKey: func(u *models.User) string { return u.AvatarKey },
		save:   usersrepo.Repository.UpdateAvatar,
	})
}

func (s *AccountService) UpdateCoverImage(ctx context.Context, userID, path string) (*models.PublicUser, error) {
	return s.replaceImage(ctx, userID, path, imageSlot{
		folder: media.FolderCovers,
		maxW:   media.CoverMaxWidth,
		maxH:   media.CoverMaxHeight,
		oldKey: func(u *models.User) string { return u.CoverImageKey },
		save:   usersrepo.Repository.UpdateCoverImage,
	})
}

type imageSlot struct {
	folder     string
	maxW, maxH int
	oldKey     func(*models.User) string
	save       func(r usersrepo.Repository, ctx context.Context, id, url, key string) error
}

// replaceImage uploads the new picture, points the user at it and only then
// deletes the previous object.
func (s *AccountService) replaceImage(ctx context.Context, userID, path string, slot imageSlot) (*models.PublicUser, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: image file is required", common.ErrInvalidInput)
	}
	if err := media.FitImage(path, slot.maxW, slot.maxH); err != nil {
		discard(path)
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	users := s.repomanager.Users(s.db)
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		discard(path)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, storageErr(err)
	}

	obj, err := s.storage.Upload(ctx, path, slot.folder)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", slot.folder, err)
	}

	if err := slot.save(users, ctx, userID, obj.URL, obj.Key); err != nil {
		s.deleteObjects(ctx, obj.Key)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, storageErr(err)
	}

	s.deleteObjects(ctx, slot.oldKey(user))

	updated, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	return updated.Public(), nil
}

// deleteObjects is best effort; leftovers are only logged.
func (s *AccountService) deleteObjects(ctx context.Context, keys ...string) {
	for _, k := range keys {
		if err := s.storage.Delete(ctx, k); err != nil {
			s.logger.Warn(ctx, "failed to delete media object", "key", k, "error", err)
		}
	}
}

// discard removes staged uploads that will not be sent to storage.
func discard(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

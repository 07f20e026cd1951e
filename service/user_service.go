package application

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
)

// 2 MiB cap on avatar uploads.
const maxAvatarSize = 2 << 20

type UserService struct {
	users  domain.UserStore
	files  domain.FileStore
	avatar domain.ImageCache
	tracer trace.Tracer
}

func NewUserService(users domain.UserStore, files domain.FileStore, avatar domain.ImageCache, tracer trace.Tracer) *UserService {
	return &UserService{
		users:  users,
		files:  files,
		avatar: avatar,
		tracer: tracer,
	}
}

func (service *UserService) GetProfile(ctx context.Context, userID string) (*domain.Profile, int, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.GetProfile")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusBadRequest, err
	}

	profile, err := service.users.Get(ctx, objectID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	if profile == nil {
		span.SetStatus(codes.Error, errors.ProfileNotFound)
		return nil, http.StatusNotFound, fmt.Errorf(errors.ProfileNotFound)
	}

	return profile, http.StatusOK, nil
}

// UpdateProfile changes the editable profile fields. Email is the login
// identity and stays fixed here.
func (service *UserService) UpdateProfile(ctx context.Context, userID string, update *domain.ProfileUpdate) (*domain.Profile, int, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.UpdateProfile")
	defer span.End()

	profile, status, err := service.GetProfile(ctx, userID)
	if err != nil {
		return nil, status, err
	}

	if strings.TrimSpace(update.FullName) == "" {
		span.SetStatus(codes.Error, "empty full name")
		return nil, http.StatusBadRequest, fmt.Errorf("Full name must not be empty")
	}

	profile.FullName = update.FullName
	profile.Phone = update.Phone

	updated, err := service.users.Update(ctx, profile)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	return updated, http.StatusOK, nil
}

// UploadAvatar stores the image on HDFS first and only then points the
// profile at it. If the profile update fails the stored file is removed so
// no orphan remains.
func (service *UserService) UploadAvatar(ctx context.Context, userID, contentType string, content []byte) (*domain.Profile, int, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.UploadAvatar")
	defer span.End()

	if len(content) > maxAvatarSize {
		span.SetStatus(codes.Error, errors.AvatarTooLarge)
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf(errors.AvatarTooLarge)
	}
	if !strings.HasPrefix(contentType, "image/") {
		span.SetStatus(codes.Error, errors.AvatarWrongType)
		return nil, http.StatusUnsupportedMediaType, fmt.Errorf(errors.AvatarWrongType)
	}

	profile, status, err := service.GetProfile(ctx, userID)
	if err != nil {
		return nil, status, err
	}

	fileName := uuid.New().String() + extensionFor(contentType)
	if err := service.files.SaveFile(ctx, userID, fileName, content); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	oldAvatar := profile.AvatarURL
	profile.AvatarURL = userID + "/" + fileName

	updated, err := service.users.Update(ctx, profile)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if delErr := service.files.DeleteFile(ctx, userID, fileName); delErr != nil {
			span.SetStatus(codes.Error, delErr.Error())
		}
		return nil, http.StatusInternalServerError, err
	}

	if oldAvatar != "" {
		parts := strings.SplitN(oldAvatar, "/", 2)
		if len(parts) == 2 {
			// old file is unreferenced now, removal failure is not fatal
			_ = service.files.DeleteFile(ctx, parts[0], parts[1])
		}
	}

	_ = service.avatar.Del(ctx, userID)

	return updated, http.StatusOK, nil
}

// GetAvatar serves avatar bytes through the cache.
func (service *UserService) GetAvatar(ctx context.Context, userID string) ([]byte, int, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.GetAvatar")
	defer span.End()

	if cached, err := service.avatar.Get(ctx, userID); err == nil {
		return cached, http.StatusOK, nil
	}

	profile, status, err := service.GetProfile(ctx, userID)
	if err != nil {
		return nil, status, err
	}
	if profile.AvatarURL == "" {
		span.SetStatus(codes.Error, "no avatar set")
		return nil, http.StatusNotFound, fmt.Errorf("No avatar set")
	}

	content, err := service.files.GetFileContent(ctx, profile.AvatarURL)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	_ = service.avatar.Post(ctx, userID, content)

	return content, http.StatusOK, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

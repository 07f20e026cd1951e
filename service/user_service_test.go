package application

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
)

// png magic bytes so content sniffing sees an image
var avatarBytes = append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0x01}, 64)...)

func newUserFixture() (*UserService, *stubUserStore, *stubFileStore, *stubImageCache, string) {
	users := &stubUserStore{}
	files := newStubFileStore()
	avatars := newStubImageCache()

	profile := &domain.Profile{
		ID:       primitive.NewObjectID(),
		FullName: "Mika Antic",
		Email:    "mika@example.com",
	}
	users.profiles = append(users.profiles, profile)

	service := NewUserService(users, files, avatars, noopTracer())
	return service, users, files, avatars, profile.ID.Hex()
}

func TestUpdateProfile(t *testing.T) {
	service, _, _, _, userID := newUserFixture()

	updated, status, err := service.UpdateProfile(context.Background(), userID, &domain.ProfileUpdate{
		FullName: "Mika Antic Jr",
		Phone:    "+381641234567",
	})
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Mika Antic Jr", updated.FullName)
	assert.Equal(t, "+381641234567", updated.Phone)
}

func TestUpdateProfileRejectsEmptyName(t *testing.T) {
	service, _, _, _, userID := newUserFixture()

	_, status, err := service.UpdateProfile(context.Background(), userID, &domain.ProfileUpdate{FullName: "  "})
	require.Error(t, err)
	assert.Equal(t, 400, status)
}

func TestUploadAvatar(t *testing.T) {
	service, users, files, avatars, userID := newUserFixture()

	profile, status, err := service.UploadAvatar(context.Background(), userID, "image/png", avatarBytes)
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.NotEmpty(t, profile.AvatarURL)
	assert.Len(t, files.saved, 1)
	assert.Equal(t, profile.AvatarURL, users.profiles[0].AvatarURL)
	assert.Contains(t, avatars.dropped, userID)
}

func TestUploadAvatarRollsBackFileOnProfileFailure(t *testing.T) {
	service, users, files, _, userID := newUserFixture()

	users.updateErr = fmt.Errorf("write conflict")

	_, status, err := service.UploadAvatar(context.Background(), userID, "image/png", avatarBytes)
	require.Error(t, err)
	assert.Equal(t, 500, status)

	// the orphaned upload must be gone again
	assert.Empty(t, files.saved)
	assert.Len(t, files.deleted, 1)
	assert.Empty(t, users.profiles[0].AvatarURL)
}

func TestUploadAvatarRejectsOversize(t *testing.T) {
	service, _, files, _, userID := newUserFixture()

	huge := make([]byte, maxAvatarSize+1)
	_, status, err := service.UploadAvatar(context.Background(), userID, "image/png", huge)
	require.Error(t, err)
	assert.Equal(t, 413, status)
	assert.Equal(t, errors.AvatarTooLarge, err.Error())
	assert.Empty(t, files.saved)
}

func TestUploadAvatarRejectsNonImage(t *testing.T) {
	service, _, files, _, userID := newUserFixture()

	_, status, err := service.UploadAvatar(context.Background(), userID, "application/pdf", avatarBytes)
	require.Error(t, err)
	assert.Equal(t, 415, status)
	assert.Equal(t, errors.AvatarWrongType, err.Error())
	assert.Empty(t, files.saved)
}

func TestUploadAvatarReplacesPrevious(t *testing.T) {
	service, _, files, _, userID := newUserFixture()

	_, _, err := service.UploadAvatar(context.Background(), userID, "image/png", avatarBytes)
	require.NoError(t, err)

	_, _, err = service.UploadAvatar(context.Background(), userID, "image/png", avatarBytes)
	require.NoError(t, err)

	// only the latest file remains on storage
	assert.Len(t, files.saved, 1)
}

func TestGetAvatarFillsCache(t *testing.T) {
	service, _, _, avatars, userID := newUserFixture()

	_, _, err := service.UploadAvatar(context.Background(), userID, "image/png", avatarBytes)
	require.NoError(t, err)

	content, status, err := service.GetAvatar(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, avatarBytes, content)
	assert.Equal(t, avatarBytes, avatars.values[userID])

	// second read comes from the cache
	content, _, err = service.GetAvatar(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, avatarBytes, content)
}

func TestGetProfileUnknownUser(t *testing.T) {
	service, _, _, _, _ := newUserFixture()

	_, status, err := service.GetProfile(context.Background(), primitive.NewObjectID().Hex())
	require.Error(t, err)
	assert.Equal(t, 404, status)
	assert.Equal(t, errors.ProfileNotFound, err.Error())
}

package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
)

func TestVerifyPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid", "Sup3rSecret!x", true},
		{"too short", "Sup3rS!", false},
		{"no uppercase", "sup3rsecret!x", false},
		{"no digit", "SuperSecret!x", false},
		{"no special", "Sup3rSecretxx", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, verifyPassword(tt.password))
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	valid := domain.RegisterRequest{
		Email:    "mika@example.com",
		FullName: "Mika Antic",
		Phone:    "+381 64 1234567",
		Password: "Sup3rSecret!x",
	}

	assert.Nil(t, validateRegistration(&valid))

	badEmail := valid
	badEmail.Email = "not-an-email"
	assert.NotNil(t, validateRegistration(&badEmail))

	badName := valid
	badName.FullName = "x"
	assert.NotNil(t, validateRegistration(&badName))

	badPhone := valid
	badPhone.Phone = "phone"
	assert.NotNil(t, validateRegistration(&badPhone))

	badPassword := valid
	badPassword.Password = "weak"
	assert.NotNil(t, validateRegistration(&badPassword))
}

func newAuthFixture() (*AuthService, *stubAuthStore, *stubUserStore, *stubAuthCache, *stubMailer) {
	store := &stubAuthStore{}
	users := &stubUserStore{}
	cache := newStubAuthCache()
	mailer := &stubMailer{}
	return NewAuthService(store, users, cache, mailer), store, users, cache, mailer
}

func TestRegisterCreatesProfileAndUnverifiedCredentials(t *testing.T) {
	service, store, users, cache, mailer := newAuthFixture()

	request := &domain.RegisterRequest{
		Email:    "mika@example.com",
		FullName: "Mika Antic",
		Password: "Sup3rSecret!x",
	}

	id, status, err := service.Register(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.NotEmpty(t, id)

	require.Len(t, store.credentials, 1)
	assert.False(t, store.credentials[0].Verified)
	assert.Equal(t, domain.UserRole(domain.Guest), store.credentials[0].Role)
	assert.NotEqual(t, request.Password, store.credentials[0].Password)

	require.Len(t, users.profiles, 1)
	assert.Equal(t, store.credentials[0].ID, users.profiles[0].ID)

	assert.Equal(t, 1, cache.postCalls)
	assert.Len(t, mailer.sent, 1)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	service, _, _, _, _ := newAuthFixture()

	request := &domain.RegisterRequest{
		Email:    "mika@example.com",
		FullName: "Mika Antic",
		Password: "Sup3rSecret!x",
	}

	_, _, err := service.Register(context.Background(), request)
	require.NoError(t, err)

	_, status, err := service.Register(context.Background(), request)
	require.Error(t, err)
	assert.Equal(t, 409, status)
	assert.Equal(t, errors.EmailAlreadyExist, err.Error())
}

func TestVerifyAccount(t *testing.T) {
	service, store, _, cache, _ := newAuthFixture()

	request := &domain.RegisterRequest{
		Email:    "mika@example.com",
		FullName: "Mika Antic",
		Password: "Sup3rSecret!x",
	}

	id, _, err := service.Register(context.Background(), request)
	require.NoError(t, err)

	token := cache.values[id]
	require.NotEmpty(t, token)

	err = service.VerifyAccount(context.Background(), &domain.RegisterValidation{
		UserToken: id,
		MailToken: token,
	})
	require.NoError(t, err)
	assert.True(t, store.credentials[0].Verified)

	// the token is single use
	err = service.VerifyAccount(context.Background(), &domain.RegisterValidation{
		UserToken: id,
		MailToken: token,
	})
	require.Error(t, err)
}

func TestVerifyAccountRejectsWrongToken(t *testing.T) {
	service, store, _, cache, _ := newAuthFixture()

	request := &domain.RegisterRequest{
		Email:    "mika@example.com",
		FullName: "Mika Antic",
		Password: "Sup3rSecret!x",
	}

	id, _, err := service.Register(context.Background(), request)
	require.NoError(t, err)
	require.NotEmpty(t, cache.values[id])

	err = service.VerifyAccount(context.Background(), &domain.RegisterValidation{
		UserToken: id,
		MailToken: "wrong-token",
	})
	require.Error(t, err)
	assert.Equal(t, errors.InvalidTokenError, err.Error())
	assert.False(t, store.credentials[0].Verified)
}

func TestLoginUnverifiedResendsToken(t *testing.T) {
	service, _, _, _, mailer := newAuthFixture()

	request := &domain.RegisterRequest{
		Email:    "mika@example.com",
		FullName: "Mika Antic",
		Password: "Sup3rSecret!x",
	}

	id, _, err := service.Register(context.Background(), request)
	require.NoError(t, err)

	body, err := service.Login(context.Background(), request.Email, request.Password)
	require.Error(t, err)
	assert.Equal(t, errors.NotVerificatedUser, err.Error())
	assert.Equal(t, id, body)
	assert.Len(t, mailer.sent, 2)
}

func TestLoginInvalidCredentials(t *testing.T) {
	service, _, _, _, _ := newAuthFixture()

	_, err := service.Login(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, err)
	assert.Equal(t, errors.InvalidCredentials, err.Error())
}

func TestLogoutDenylistsToken(t *testing.T) {
	service, _, _, cache, _ := newAuthFixture()

	err := service.Logout(context.Background(), "some-session-token")
	require.NoError(t, err)

	denied, err := cache.IsTokenDenylisted(context.Background(), "some-session-token")
	require.NoError(t, err)
	assert.True(t, denied)
}

func TestRecoverPasswordMismatch(t *testing.T) {
	service, _, _, _, _ := newAuthFixture()

	err := service.RecoverPassword(context.Background(), &domain.RecoverPasswordRequest{
		UserID:      "ffffffffffffffffffffffff",
		NewPassword: "Sup3rSecret!x",
		RepeatedNew: "Different0ne!",
	})
	require.Error(t, err)
	assert.Equal(t, errors.NotMatchingPasswordsError, err.Error())
}

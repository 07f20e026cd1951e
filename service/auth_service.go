package application

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"unicode"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/sendexa/Drush-Booking/authorization"
	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
	"github.com/sendexa/Drush-Booking/metrics"
)

type AuthService struct {
	store  domain.AuthStore
	users  domain.UserStore
	cache  domain.AuthCache
	mailer domain.Mailer
}

func NewAuthService(store domain.AuthStore, users domain.UserStore, cache domain.AuthCache, mailer domain.Mailer) *AuthService {
	return &AuthService{
		store:  store,
		users:  users,
		cache:  cache,
		mailer: mailer,
	}
}

type ValidationError struct {
	Message string `json:"message"`
}

func (v *ValidationError) Error() string {
	return v.Message
}

func verifyPassword(s string) (valid bool) {
	hasUpperCase := false
	hasLowerCase := false
	hasDigit := false
	hasSpecial := false

	for _, c := range s {
		switch {
		case unicode.IsNumber(c):
			hasDigit = true
		case unicode.IsUpper(c):
			hasUpperCase = true
		case unicode.IsLower(c):
			hasLowerCase = true
		case unicode.Is(unicode.S, c) || unicode.IsPunct(c):
			hasSpecial = true
		}
	}

	valid = len(s) >= 11 && hasUpperCase && hasLowerCase && hasDigit && hasSpecial
	return
}

var (
	emailRegex    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	fullNameRegex = regexp.MustCompile(`^[a-zA-Z\s'-]{3,50}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9\s-]{6,20}$`)
)

func validateRegistration(request *domain.RegisterRequest) *ValidationError {
	if request.Email == "" {
		return &ValidationError{Message: "Email cannot be empty"}
	}
	if !emailRegex.MatchString(request.Email) {
		return &ValidationError{Message: "Invalid email format"}
	}

	if request.FullName == "" {
		return &ValidationError{Message: "Full name cannot be empty"}
	}
	if !fullNameRegex.MatchString(request.FullName) {
		return &ValidationError{Message: "Invalid full name format. It must be 3-50 characters long and contain only letters"}
	}

	if request.Phone != "" && !phoneRegex.MatchString(request.Phone) {
		return &ValidationError{Message: "Invalid phone format"}
	}

	if request.Password == "" {
		return &ValidationError{Message: "Password cannot be empty"}
	}
	if !verifyPassword(request.Password) {
		return &ValidationError{Message: "Invalid password format. It should be at least 11 characters, with at least one uppercase letter, one lowercase letter, one digit, and one special character"}
	}

	return nil
}

// Register creates credentials plus a profile row and mails a verification
// token. The user stays unverified until the token comes back.
func (service *AuthService) Register(ctx context.Context, request *domain.RegisterRequest) (string, int, error) {
	if err := validateRegistration(request); err != nil {
		return "", http.StatusBadRequest, err
	}

	inBlacklist, err := blackListChecking(request.Password)
	if err == nil && inBlacklist {
		log.Println("Password is in blacklist")
		return "", http.StatusBadRequest, fmt.Errorf(errors.BlackList)
	}

	existing, err := service.store.GetByEmail(ctx, request.Email)
	if err != nil {
		return "", http.StatusInternalServerError, err
	}
	if existing != nil {
		return "", http.StatusConflict, fmt.Errorf(errors.EmailAlreadyExist)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", http.StatusInternalServerError, err
	}

	profile := domain.Profile{
		FullName: request.FullName,
		Email:    request.Email,
		Phone:    request.Phone,
	}

	createdProfile, err := service.users.Insert(ctx, &profile)
	if err != nil {
		return "", http.StatusInternalServerError, err
	}

	credentials := domain.Credentials{
		ID:       createdProfile.ID,
		Email:    request.Email,
		Password: string(hash),
		Role:     domain.Guest,
		Verified: false,
	}

	err = service.store.Register(ctx, &credentials)
	if err != nil {
		return "", http.StatusInternalServerError, err
	}

	validationToken := uuid.New()

	err = service.cache.PostCacheData(ctx, credentials.ID.Hex(), validationToken.String())
	if err != nil {
		log.Printf("Failed to post validation data to redis: %s", err)
		return "", http.StatusInternalServerError, err
	}

	body := fmt.Sprintf("Your validation token for your booking account is:\n%s", validationToken)
	err = service.mailer.Send(request.Email, "Verify your booking account", body)
	if err != nil {
		return "", http.StatusInternalServerError, err
	}

	return credentials.ID.Hex(), http.StatusOK, nil
}

func (service *AuthService) VerifyAccount(ctx context.Context, validation *domain.RegisterValidation) error {
	token, err := service.cache.GetCachedValue(ctx, validation.UserToken)
	if err != nil {
		log.Printf("Error fetching validation token from cache: %s", err)
		return fmt.Errorf(errors.ExpiredTokenError)
	}

	if validation.MailToken != token {
		return fmt.Errorf(errors.InvalidTokenError)
	}

	err = service.cache.DelCachedValue(ctx, validation.UserToken)
	if err != nil {
		log.Printf("error in deleting cached value: %s", err)
		return err
	}

	userID, err := primitive.ObjectIDFromHex(validation.UserToken)
	if err != nil {
		return fmt.Errorf(errors.InvalidUserTokenError)
	}

	credentials, err := service.store.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if credentials == nil {
		return fmt.Errorf("user not found")
	}

	credentials.Verified = true
	return service.store.Update(ctx, credentials)
}

func (service *AuthService) ResendVerificationToken(ctx context.Context, request *domain.ResendVerificationRequest) error {
	if len(request.UserMail) == 0 {
		return fmt.Errorf(errors.InvalidResendMailError)
	}

	tokenUUID, _ := uuid.NewUUID()

	err := service.cache.PostCacheData(ctx, request.UserToken, tokenUUID.String())
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your validation token for your booking account is:\n%s", tokenUUID)
	return service.mailer.Send(request.UserMail, "Verify your booking account", body)
}

// SendRecoveryPasswordToken starts the forgot-password flow.
func (service *AuthService) SendRecoveryPasswordToken(ctx context.Context, email string) (string, int, error) {
	credentials, err := service.store.GetByEmail(ctx, email)
	if err != nil {
		return "", http.StatusInternalServerError, err
	}
	if credentials == nil {
		return "", http.StatusNotFound, fmt.Errorf(errors.NotFoundMailError)
	}

	userID := credentials.ID.Hex()

	recoverUUID, _ := uuid.NewUUID()
	body := fmt.Sprintf("Your recover password token is:\n%s", recoverUUID)
	err = service.mailer.Send(email, "Recover password on your booking account", body)
	if err != nil {
		return "", http.StatusInternalServerError, err
	}

	err = service.cache.PostCacheData(ctx, userID, recoverUUID.String())
	if err != nil {
		return "", http.StatusInternalServerError, err
	}

	return userID, http.StatusOK, nil
}

func (service *AuthService) CheckRecoveryPasswordToken(ctx context.Context, request *domain.RegisterValidation) error {
	if len(request.UserToken) == 0 {
		return fmt.Errorf(errors.InvalidUserTokenError)
	}

	token, err := service.cache.GetCachedValue(ctx, request.UserToken)
	if err != nil {
		return fmt.Errorf(errors.InvalidTokenError)
	}

	if request.MailToken != token {
		return fmt.Errorf(errors.InvalidTokenError)
	}

	_ = service.cache.DelCachedValue(ctx, request.UserToken)
	return nil
}

func (service *AuthService) RecoverPassword(ctx context.Context, recoverPassword *domain.RecoverPasswordRequest) error {
	if recoverPassword.NewPassword != recoverPassword.RepeatedNew {
		return fmt.Errorf(errors.NotMatchingPasswordsError)
	}

	if !verifyPassword(recoverPassword.NewPassword) {
		return &ValidationError{Message: "Invalid password format. It should be at least 11 characters, with at least one uppercase letter, one lowercase letter, one digit, and one special character"}
	}

	primitiveID, err := primitive.ObjectIDFromHex(recoverPassword.UserID)
	if err != nil {
		return fmt.Errorf(errors.InvalidUserTokenError)
	}

	credentials, err := service.store.GetByID(ctx, primitiveID)
	if err != nil {
		return err
	}
	if credentials == nil {
		return fmt.Errorf("user not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(recoverPassword.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	credentials.Password = string(hash)

	return service.store.Update(ctx, credentials)
}

func (service *AuthService) ChangePassword(ctx context.Context, password *domain.PasswordChange, tokenString string) (string, int, error) {
	parsedToken := authorization.GetToken(tokenString)
	claims, err := authorization.GetClaims(parsedToken.Bytes())
	if err != nil {
		return "", http.StatusUnauthorized, err
	}

	credentials, err := service.store.GetByEmail(ctx, claims.Email)
	if err != nil || credentials == nil {
		return "baseErr", http.StatusInternalServerError, fmt.Errorf("user not found")
	}

	err = bcrypt.CompareHashAndPassword([]byte(credentials.Password), []byte(password.OldPassword))
	if err != nil {
		return "oldPassErr", http.StatusConflict, fmt.Errorf("Old password is incorrect")
	}

	if password.NewPassword == "" {
		return "Password cannot be empty", http.StatusBadRequest, fmt.Errorf("New password is empty")
	}
	if !verifyPassword(password.NewPassword) {
		return "Invalid password format. It should be at least 11 characters, with at least one uppercase letter, one lowercase letter, one digit, and one special character", http.StatusBadRequest, fmt.Errorf("Invalid password format")
	}

	inBlacklist, err := blackListChecking(password.NewPassword)
	if err == nil && inBlacklist {
		return errors.BlackList, http.StatusBadRequest, fmt.Errorf(errors.BlackList)
	}

	if password.NewPassword != password.NewPasswordConfirm {
		return "newPassErr", http.StatusNotAcceptable, fmt.Errorf("New password does not match confirmation")
	}

	newEncryptedPassword, err := bcrypt.GenerateFromPassword([]byte(password.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return "Error trying to hash password.", http.StatusInternalServerError, err
	}

	credentials.Password = string(newEncryptedPassword)

	err = service.store.Update(ctx, credentials)
	if err != nil {
		return "baseErr", http.StatusInternalServerError, err
	}

	return "OK", http.StatusOK, nil
}

func (service *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	credentials, err := service.store.GetByEmail(ctx, email)
	if err != nil {
		metrics.IncUserLogin("error")
		return "", fmt.Errorf("Error retrieving user: %v", err)
	}

	if credentials == nil {
		metrics.IncUserLogin("invalid")
		return "", fmt.Errorf(errors.InvalidCredentials)
	}

	if !credentials.Verified {
		verify := domain.ResendVerificationRequest{
			UserToken: credentials.ID.Hex(),
			UserMail:  credentials.Email,
		}

		err = service.ResendVerificationToken(ctx, &verify)
		if err != nil {
			return "", err
		}

		metrics.IncUserLogin("unverified")
		return credentials.ID.Hex(), fmt.Errorf(errors.NotVerificatedUser)
	}

	passError := bcrypt.CompareHashAndPassword([]byte(credentials.Password), []byte(password))
	if passError != nil {
		metrics.IncUserLogin("invalid")
		return "", fmt.Errorf(errors.InvalidCredentials)
	}

	tokenString, err := authorization.GenerateJWT(credentials)
	if err != nil {
		return "", err
	}

	metrics.IncUserLogin("success")
	return tokenString, nil
}

// Logout denylists the presented token until its natural expiry.
func (service *AuthService) Logout(ctx context.Context, tokenString string) error {
	return service.cache.DenylistToken(ctx, tokenString, authorization.TokenDuration)
}

// CurrentUser resolves a session token to the stored profile.
func (service *AuthService) CurrentUser(ctx context.Context, tokenString string) (*domain.Profile, error) {
	parsedToken := authorization.GetToken(tokenString)
	claims, err := authorization.GetClaims(parsedToken.Bytes())
	if err != nil {
		return nil, err
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, err
	}

	profile, err := service.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf(errors.ProfileNotFound)
	}
	return profile, nil
}

func blackListChecking(password string) (bool, error) {
	file, err := os.Open("blacklist.txt")
	if err != nil {
		log.Printf("Error in checking blacklist: %s", err.Error())
		return false, err
	}
	defer file.Close()

	blacklist := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		blacklist[scanner.Text()] = true
	}
	return blacklist[password], nil
}

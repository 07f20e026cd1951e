package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
	application "github.com/sendexa/Drush-Booking/service"
)

type AuthHandler struct {
	logger  *logrus.Logger
	service *application.AuthService
	tracer  trace.Tracer
}

func NewAuthHandler(logger *logrus.Logger, service *application.AuthService, tracer trace.Tracer) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		service: service,
		tracer:  tracer,
	}
}

func (handler *AuthHandler) Init(router *mux.Router) {
	router.HandleFunc("/auth/register", handler.Register).Methods("POST")
	router.HandleFunc("/auth/login", handler.Login).Methods("POST")
	router.HandleFunc("/auth/logout", handler.Logout).Methods("POST")
	router.HandleFunc("/auth/session", handler.CurrentUser).Methods("GET")
	router.HandleFunc("/auth/verifyAccount", handler.VerifyAccount).Methods("POST")
	router.HandleFunc("/auth/resendVerify", handler.ResendVerificationToken).Methods("POST")
	router.HandleFunc("/auth/recoverPasswordToken", handler.SendRecoveryPasswordToken).Methods("POST")
	router.HandleFunc("/auth/checkRecoverToken", handler.CheckRecoveryPasswordToken).Methods("POST")
	router.HandleFunc("/auth/recoverPassword", handler.RecoverPassword).Methods("POST")
	router.HandleFunc("/auth/changePassword", handler.ChangePassword).Methods("POST")
}

func (handler *AuthHandler) Register(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Register")
	defer span.End()

	var request domain.RegisterRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	id, status, err := handler.service.Register(ctx, &request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), status)
		return
	}

	writer.WriteHeader(status)
	jsonResponse(id, writer)
}

func (handler *AuthHandler) Login(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Login")
	defer span.End()

	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	token, err := handler.service.Login(ctx, request.Email, request.Password)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errors.NotVerificatedUser {
			// body carries the user id so the client can continue verification
			http.Error(writer, token, http.StatusLocked)
			return
		}
		http.Error(writer, errors.InvalidCredentials, http.StatusUnauthorized)
		return
	}

	writer.Write([]byte(token))
}

// Logout denylists the presented token. The client drops its copy, the
// denylist covers replays until expiry.
func (handler *AuthHandler) Logout(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Logout")
	defer span.End()

	tokenString := bearerToken(req)
	if tokenString == "" {
		http.Error(writer, "Missing token", http.StatusUnauthorized)
		return
	}

	if err := handler.service.Logout(ctx, tokenString); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

// CurrentUser backs the client's session restore on page load.
func (handler *AuthHandler) CurrentUser(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.CurrentUser")
	defer span.End()

	tokenString := bearerToken(req)
	if tokenString == "" {
		http.Error(writer, "Missing token", http.StatusUnauthorized)
		return
	}

	profile, err := handler.service.CurrentUser(ctx, tokenString)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusUnauthorized)
		return
	}

	jsonResponse(profile, writer)
}

func (handler *AuthHandler) VerifyAccount(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.VerifyAccount")
	defer span.End()

	var request domain.RegisterValidation
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	if err := handler.service.VerifyAccount(ctx, &request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errors.InvalidTokenError || err.Error() == errors.ExpiredTokenError {
			http.Error(writer, err.Error(), http.StatusNotAcceptable)
			return
		}
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *AuthHandler) ResendVerificationToken(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.ResendVerificationToken")
	defer span.End()

	var request domain.ResendVerificationRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	if err := handler.service.ResendVerificationToken(ctx, &request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusNotAcceptable)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *AuthHandler) SendRecoveryPasswordToken(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.SendRecoveryPasswordToken")
	defer span.End()

	buf := new(struct {
		Email string `json:"email"`
	})
	if err := json.NewDecoder(req.Body).Decode(buf); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	id, status, err := handler.service.SendRecoveryPasswordToken(ctx, buf.Email)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), status)
		return
	}

	writer.WriteHeader(status)
	jsonResponse(id, writer)
}

func (handler *AuthHandler) CheckRecoveryPasswordToken(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.CheckRecoveryPasswordToken")
	defer span.End()

	var request domain.RegisterValidation
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	if err := handler.service.CheckRecoveryPasswordToken(ctx, &request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusNotAcceptable)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *AuthHandler) RecoverPassword(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.RecoverPassword")
	defer span.End()

	var request domain.RecoverPasswordRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	if err := handler.service.RecoverPassword(ctx, &request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusNotAcceptable)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *AuthHandler) ChangePassword(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.ChangePassword")
	defer span.End()

	var request domain.PasswordChange
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	tokenString := bearerToken(req)
	message, status, err := handler.service.ChangePassword(ctx, &request, tokenString)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Warnf("change password failed: %s", err)
		http.Error(writer, message, status)
		return
	}

	writer.WriteHeader(status)
}

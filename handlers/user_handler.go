package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
	application "github.com/sendexa/Drush-Booking/service"
)

type UserHandler struct {
	logger  *logrus.Logger
	service *application.UserService
	tracer  trace.Tracer
}

func NewUserHandler(logger *logrus.Logger, service *application.UserService, tracer trace.Tracer) *UserHandler {
	return &UserHandler{
		logger:  logger,
		service: service,
		tracer:  tracer,
	}
}

func (handler *UserHandler) Init(router *mux.Router) {
	router.HandleFunc("/profile", handler.GetProfile).Methods("GET")
	router.HandleFunc("/profile", handler.UpdateProfile).Methods("PATCH")
	router.HandleFunc("/profile/avatar", handler.UploadAvatar).Methods("POST")
	router.HandleFunc("/profile/avatar", handler.GetAvatar).Methods("GET")
}

func (handler *UserHandler) GetProfile(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.GetProfile")
	defer span.End()

	claims, err := requestClaims(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusUnauthorized)
		return
	}

	profile, status, err := handler.service.GetProfile(ctx, claims.UserID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), status)
		return
	}

	jsonResponse(profile, writer)
}

func (handler *UserHandler) UpdateProfile(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.UpdateProfile")
	defer span.End()

	claims, err := requestClaims(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusUnauthorized)
		return
	}

	var update domain.ProfileUpdate
	if err := json.NewDecoder(req.Body).Decode(&update); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	profile, status, err := handler.service.UpdateProfile(ctx, claims.UserID, &update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), status)
		return
	}

	jsonResponse(profile, writer)
}

// UploadAvatar accepts a multipart form with an "avatar" file part.
func (handler *UserHandler) UploadAvatar(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.UploadAvatar")
	defer span.End()

	claims, err := requestClaims(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusUnauthorized)
		return
	}

	file, header, err := req.FormFile("avatar")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Missing avatar file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	profile, status, err := handler.service.UploadAvatar(ctx, claims.UserID, header.Header.Get("Content-Type"), content)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Warnf("avatar upload failed for user %s: %s", claims.UserID, err)
		http.Error(writer, err.Error(), status)
		return
	}

	jsonResponse(profile, writer)
}

func (handler *UserHandler) GetAvatar(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.GetAvatar")
	defer span.End()

	claims, err := requestClaims(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusUnauthorized)
		return
	}

	content, status, err := handler.service.GetAvatar(ctx, claims.UserID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), status)
		return
	}

	writer.Header().Set("Content-Type", http.DetectContentType(content))
	writer.Write(content)
}

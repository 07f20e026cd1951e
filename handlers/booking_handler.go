package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
	application "github.com/sendexa/Drush-Booking/service"
)

type BookingHandler struct {
	logger  *logrus.Logger
	service *application.BookingService
	tracer  trace.Tracer
}

func NewBookingHandler(logger *logrus.Logger, service *application.BookingService, tracer trace.Tracer) *BookingHandler {
	return &BookingHandler{
		logger:  logger,
		service: service,
		tracer:  tracer,
	}
}

func (handler *BookingHandler) Init(router *mux.Router) {
	router.HandleFunc("/bookings", handler.CreateBooking).Methods("POST")
	router.HandleFunc("/bookings", handler.GetUserBookings).Methods("GET")
	router.HandleFunc("/bookings/stats", handler.GetStats).Methods("GET")
	router.HandleFunc("/bookings/{id}", handler.GetBooking).Methods("GET")
	router.HandleFunc("/bookings/{id}/cancel", handler.CancelBooking).Methods("PATCH")
}

func (handler *BookingHandler) CreateBooking(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.CreateBooking")
	defer span.End()

	claims, err := requestClaims(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusUnauthorized)
		return
	}

	var request domain.BookingRequest
	if err := request.FromJSON(req.Body); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	booking, status, err := handler.service.CreateBooking(ctx, claims.UserID, &request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Warnf("booking rejected for user %s: %s", claims.UserID, err)
		http.Error(writer, err.Error(), status)
		return
	}

	handler.logger.Infof("booking %s created for user %s", booking.ID, claims.UserID)
	writer.WriteHeader(http.StatusCreated)
	jsonResponse(booking, writer)
}

func (handler *BookingHandler) GetUserBookings(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.GetUserBookings")
	defer span.End()

	claims, err := requestClaims(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusUnauthorized)
		return
	}

	list, err := handler.service.GetUserBookings(ctx, claims.UserID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(list, writer)
}

func (handler *BookingHandler) GetStats(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.GetStats")
	defer span.End()

	claims, err := requestClaims(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusUnauthorized)
		return
	}

	stats, err := handler.service.GetStats(ctx, claims.UserID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(stats, writer)
}

func (handler *BookingHandler) GetBooking(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.GetBooking")
	defer span.End()

	claims, err := requestClaims(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(req)
	booking, status, err := handler.service.GetBooking(ctx, vars["id"], claims.UserID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), status)
		return
	}

	jsonResponse(booking, writer)
}

func (handler *BookingHandler) CancelBooking(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.CancelBooking")
	defer span.End()

	claims, err := requestClaims(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(req)
	status, err := handler.service.CancelBooking(ctx, vars["id"], claims.UserID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handler.logger.Warnf("cancel rejected for booking %s: %s", vars["id"], err)
		http.Error(writer, err.Error(), status)
		return
	}

	handler.logger.Infof("booking %s cancelled by user %s", vars["id"], claims.UserID)
	writer.WriteHeader(status)
}

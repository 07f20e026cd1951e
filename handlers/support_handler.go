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

type SupportHandler struct {
	logger  *logrus.Logger
	service *application.SupportService
	tracer  trace.Tracer
}

func NewSupportHandler(logger *logrus.Logger, service *application.SupportService, tracer trace.Tracer) *SupportHandler {
	return &SupportHandler{
		logger:  logger,
		service: service,
		tracer:  tracer,
	}
}

func (handler *SupportHandler) Init(router *mux.Router) {
	router.HandleFunc("/support/tickets", handler.CreateTicket).Methods("POST")
	router.HandleFunc("/support/tickets", handler.GetUserTickets).Methods("GET")
}

func (handler *SupportHandler) CreateTicket(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.CreateTicket")
	defer span.End()

	claims, err := requestClaims(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusUnauthorized)
		return
	}

	var ticket domain.SupportTicket
	if err := ticket.FromJSON(req.Body); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	created, status, err := handler.service.CreateTicket(ctx, claims.UserID, &ticket)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), status)
		return
	}

	handler.logger.Infof("support ticket %s opened by user %s", created.ID.Hex(), claims.UserID)
	writer.WriteHeader(http.StatusCreated)
	jsonResponse(created, writer)
}

func (handler *SupportHandler) GetUserTickets(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "SupportHandler.GetUserTickets")
	defer span.End()

	claims, err := requestClaims(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusUnauthorized)
		return
	}

	tickets, err := handler.service.GetUserTickets(ctx, claims.UserID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(tickets, writer)
}

package application

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
)

type SupportService struct {
	tickets domain.SupportStore
	tracer  trace.Tracer
}

func NewSupportService(tickets domain.SupportStore, tracer trace.Tracer) *SupportService {
	return &SupportService{
		tickets: tickets,
		tracer:  tracer,
	}
}

// CreateTicket files a support request. Every new ticket starts open,
// whatever status the request body carried.
func (service *SupportService) CreateTicket(ctx context.Context, userID string, ticket *domain.SupportTicket) (*domain.SupportTicket, int, error) {
	ctx, span := service.tracer.Start(ctx, "SupportService.CreateTicket")
	defer span.End()

	if strings.TrimSpace(ticket.Subject) == "" {
		span.SetStatus(codes.Error, errors.TicketSubjectEmpty)
		return nil, http.StatusBadRequest, fmt.Errorf(errors.TicketSubjectEmpty)
	}
	if strings.TrimSpace(ticket.Description) == "" {
		span.SetStatus(codes.Error, errors.TicketBodyEmpty)
		return nil, http.StatusBadRequest, fmt.Errorf(errors.TicketBodyEmpty)
	}

	ticket.UserID = userID
	ticket.Status = domain.TicketStatusOpen

	created, err := service.tickets.Insert(ctx, ticket)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	return created, http.StatusOK, nil
}

func (service *SupportService) GetUserTickets(ctx context.Context, userID string) ([]*domain.SupportTicket, error) {
	ctx, span := service.tracer.Start(ctx, "SupportService.GetUserTickets")
	defer span.End()

	tickets, err := service.tickets.GetByUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return tickets, nil
}

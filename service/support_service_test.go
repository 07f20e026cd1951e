package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
)

func TestCreateTicketAlwaysOpensOpen(t *testing.T) {
	store := &stubSupportStore{}
	service := NewSupportService(store, noopTracer())

	ticket := &domain.SupportTicket{
		Subject:      "Late check-in",
		Description:  "Arriving after midnight, is the front desk staffed?",
		ContactEmail: "mika@example.com",
		Status:       "resolved",
	}

	created, status, err := service.CreateTicket(context.Background(), "user-1", ticket)
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, domain.TicketStatusOpen, created.Status)
	assert.Equal(t, "user-1", created.UserID)
	assert.False(t, created.ID.IsZero())
}

func TestCreateTicketValidation(t *testing.T) {
	store := &stubSupportStore{}
	service := NewSupportService(store, noopTracer())

	_, _, err := service.CreateTicket(context.Background(), "user-1", &domain.SupportTicket{
		Description: "no subject",
	})
	require.Error(t, err)
	assert.Equal(t, errors.TicketSubjectEmpty, err.Error())

	_, _, err = service.CreateTicket(context.Background(), "user-1", &domain.SupportTicket{
		Subject: "no body",
	})
	require.Error(t, err)
	assert.Equal(t, errors.TicketBodyEmpty, err.Error())

	assert.Empty(t, store.tickets)
}

func TestGetUserTicketsScopedToUser(t *testing.T) {
	store := &stubSupportStore{}
	service := NewSupportService(store, noopTracer())

	_, _, err := service.CreateTicket(context.Background(), "user-1", &domain.SupportTicket{
		Subject:     "Parking",
		Description: "Is there on-site parking?",
	})
	require.NoError(t, err)

	_, _, err = service.CreateTicket(context.Background(), "user-2", &domain.SupportTicket{
		Subject:     "Billing",
		Description: "Charged twice for the deposit",
	})
	require.NoError(t, err)

	tickets, err := service.GetUserTickets(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Parking", tickets[0].Subject)
}

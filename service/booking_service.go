package application

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
	"github.com/sendexa/Drush-Booking/metrics"
)

type BookingService struct {
	bookings domain.BookingStore
	rooms    domain.RoomStore
	users    domain.UserStore
	mailer   domain.Mailer
	tracer   trace.Tracer
}

func NewBookingService(bookings domain.BookingStore, rooms domain.RoomStore, users domain.UserStore, mailer domain.Mailer, tracer trace.Tracer) *BookingService {
	return &BookingService{
		bookings: bookings,
		rooms:    rooms,
		users:    users,
		mailer:   mailer,
		tracer:   tracer,
	}
}

// Nights is the number of nights charged for a stay,
// ceil((checkOut - checkIn) / 24h).
func Nights(checkIn, checkOut time.Time) int {
	hours := checkOut.Sub(checkIn).Hours()
	nights := int(hours / 24)
	if hours > float64(nights)*24 {
		nights++
	}
	return nights
}

// TotalPrice is nights x nightly rate.
func TotalPrice(checkIn, checkOut time.Time, pricePerNight float64) float64 {
	return float64(Nights(checkIn, checkOut)) * pricePerNight
}

// AmountDueNow is the charge taken at booking time: the full total, or
// exactly half of it for the deposit option.
func AmountDueNow(total float64, option domain.PaymentOption) float64 {
	if option == domain.PaymentHalf {
		return total * 0.5
	}
	return total
}

// CreateBooking validates the request, re-checks availability against the
// booking store at insert time, computes the price and persists the booking.
// The date-range check runs before any store access.
func (service *BookingService) CreateBooking(ctx context.Context, userID string, request *domain.BookingRequest) (*domain.Booking, int, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.CreateBooking")
	defer span.End()

	if !request.CheckOut.After(request.CheckIn) {
		span.SetStatus(codes.Error, errors.InvalidDateRange)
		return nil, http.StatusBadRequest, fmt.Errorf(errors.InvalidDateRange)
	}

	today := time.Now().Truncate(24 * time.Hour)
	if request.CheckIn.Before(today) {
		span.SetStatus(codes.Error, errors.CheckInInPast)
		return nil, http.StatusBadRequest, fmt.Errorf(errors.CheckInInPast)
	}

	if request.PaymentOption != domain.PaymentFull && request.PaymentOption != domain.PaymentHalf {
		span.SetStatus(codes.Error, "unknown payment option")
		return nil, http.StatusBadRequest, fmt.Errorf("Payment option must be 'full' or 'half'")
	}

	room, err := service.rooms.GetByType(ctx, request.RoomType)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	if room == nil || !room.IsAvailable {
		span.SetStatus(codes.Error, errors.RoomTypeUnknown)
		return nil, http.StatusBadRequest, fmt.Errorf(errors.RoomTypeUnknown)
	}

	if request.Guests < 1 || request.Guests > room.Capacity {
		span.SetStatus(codes.Error, errors.GuestCountOutOfRange)
		return nil, http.StatusBadRequest, fmt.Errorf(errors.GuestCountOutOfRange)
	}

	// The availability list shown to the user is stale by the time the form
	// is submitted, so the count runs again against the store here.
	remaining, err := service.availableQuantity(ctx, room, request.CheckIn, request.CheckOut)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	if remaining <= 0 {
		span.SetStatus(codes.Error, errors.RoomNotAvailable)
		return nil, http.StatusMethodNotAllowed, fmt.Errorf(errors.RoomNotAvailable)
	}

	total := TotalPrice(request.CheckIn, request.CheckOut, room.PricePerNight)
	amountPaid := AmountDueNow(total, request.PaymentOption)

	status := domain.StatusConfirmed
	if request.PaymentOption == domain.PaymentHalf {
		status = domain.StatusPending
	}

	booking := domain.Booking{
		UserID:          userID,
		RoomID:          room.ID.Hex(),
		RoomType:        room.RoomType,
		CheckIn:         request.CheckIn,
		CheckOut:        request.CheckOut,
		Guests:          request.Guests,
		TotalPrice:      total,
		AmountPaid:      amountPaid,
		PaymentOption:   request.PaymentOption,
		Status:          status,
		SpecialRequests: request.SpecialRequests,
	}

	created, err := service.bookings.Insert(ctx, &booking)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	metrics.IncBookingCreated(string(created.Status))
	service.sendConfirmationMail(ctx, created)

	return created, http.StatusOK, nil
}

// GetAvailableRooms returns every sellable room with the quantity still
// free for the range. Sold-out rooms are included with quantity 0.
func (service *BookingService) GetAvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]*domain.AvailableRoom, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetAvailableRooms")
	defer span.End()

	if !checkOut.After(checkIn) {
		span.SetStatus(codes.Error, errors.InvalidDateRange)
		return nil, fmt.Errorf(errors.InvalidDateRange)
	}

	rooms, err := service.rooms.GetAvailable(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	available := make([]*domain.AvailableRoom, 0, len(rooms))
	for _, room := range rooms {
		quantity, err := service.availableQuantity(ctx, room, checkIn, checkOut)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		available = append(available, &domain.AvailableRoom{
			Room:              *room,
			AvailableQuantity: quantity,
		})
	}

	return available, nil
}

func (service *BookingService) availableQuantity(ctx context.Context, room *domain.Room, checkIn, checkOut time.Time) (int, error) {
	existing, err := service.bookings.GetByRoom(ctx, room.ID.Hex())
	if err != nil {
		return 0, err
	}

	remaining := room.TotalQuantity - existing.CountOverlapping(checkIn, checkOut)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// GetUserBookings partitions the user's bookings by check-out against now:
// every booking lands in exactly one of upcoming or past.
func (service *BookingService) GetUserBookings(ctx context.Context, userID string) (*domain.BookingList, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetUserBookings")
	defer span.End()

	bookings, err := service.bookings.GetByUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return PartitionBookings(bookings, time.Now()), nil
}

func PartitionBookings(bookings domain.Bookings, now time.Time) *domain.BookingList {
	list := &domain.BookingList{
		Upcoming: domain.Bookings{},
		Past:     domain.Bookings{},
	}
	for _, booking := range bookings {
		if booking.CheckOut.Before(now) {
			list.Past = append(list.Past, booking)
		} else {
			list.Upcoming = append(list.Upcoming, booking)
		}
	}
	return list
}

func (service *BookingService) GetBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, int, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetBooking")
	defer span.End()

	booking, err := service.bookings.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusNotFound, err
	}

	if booking.UserID != userID {
		span.SetStatus(codes.Error, errors.NotBookingOwner)
		return nil, http.StatusForbidden, fmt.Errorf(errors.NotBookingOwner)
	}

	return booking, http.StatusOK, nil
}

// CancelBooking moves a pending or confirmed booking to cancelled.
// Cancellation is terminal and only possible before the stay starts.
func (service *BookingService) CancelBooking(ctx context.Context, bookingID, userID string) (int, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.CancelBooking")
	defer span.End()

	booking, err := service.bookings.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusNotFound, err
	}

	if booking.UserID != userID {
		span.SetStatus(codes.Error, errors.NotBookingOwner)
		return http.StatusForbidden, fmt.Errorf(errors.NotBookingOwner)
	}

	if booking.Status != domain.StatusPending && booking.Status != domain.StatusConfirmed {
		span.SetStatus(codes.Error, errors.BookingNotCancelable)
		return http.StatusConflict, fmt.Errorf(errors.BookingNotCancelable)
	}

	if !booking.CheckIn.After(time.Now()) {
		span.SetStatus(codes.Error, errors.BookingAlreadyBegun)
		return http.StatusConflict, fmt.Errorf(errors.BookingAlreadyBegun)
	}

	err = service.bookings.UpdateStatus(ctx, booking, domain.StatusCancelled)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	metrics.IncBookingCancelled()
	return http.StatusOK, nil
}

// GetStats backs the dashboard cards.
func (service *BookingService) GetStats(ctx context.Context, userID string) (*domain.BookingStats, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetStats")
	defer span.End()

	bookings, err := service.bookings.GetByUser(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	stats := &domain.BookingStats{TotalBookings: len(bookings)}
	for _, booking := range bookings {
		switch {
		case booking.Status == domain.StatusCancelled:
			stats.CancelledBookings++
		case booking.CheckOut.Before(now):
			stats.CompletedBookings++
		default:
			stats.UpcomingBookings++
		}
	}
	return stats, nil
}

func (service *BookingService) sendConfirmationMail(ctx context.Context, booking *domain.Booking) {
	userID, err := primitive.ObjectIDFromHex(booking.UserID)
	if err != nil {
		log.Println(err)
		return
	}

	profile, err := service.users.Get(ctx, userID)
	if err != nil || profile == nil {
		log.Printf("could not resolve profile for booking mail: %v", err)
		return
	}

	subject := "Booking confirmed!"
	if booking.Status == domain.StatusPending {
		subject = "Booking pending"
	}

	body := fmt.Sprintf(
		"Your %s room is booked from %s to %s.\nTotal price: $%.2f\nPaid now: $%.2f\nBalance due at check-in: $%.2f\n",
		booking.RoomType,
		booking.CheckIn.Format("2006-01-02"),
		booking.CheckOut.Format("2006-01-02"),
		booking.TotalPrice,
		booking.AmountPaid,
		booking.TotalPrice-booking.AmountPaid,
	)

	// Confirmation mail is best effort, the booking is already stored.
	if err := service.mailer.Send(profile.Email, subject, body); err != nil {
		log.Printf("failed to send booking mail: %s", err)
	}
}

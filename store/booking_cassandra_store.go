package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
	localErrors "github.com/sendexa/Drush-Booking/errors"
)

// BookingCassandraStore keeps bookings dual-keyed so that both the
// my-bookings page (by user) and availability counting (by room) read a
// single partition.
type BookingCassandraStore struct {
	session *gocql.Session
	logger  *log.Logger
	tracer  trace.Tracer
}

func NewBookingCassandraStore(session *gocql.Session, logger *log.Logger, tracer trace.Tracer) *BookingCassandraStore {
	return &BookingCassandraStore{
		session: session,
		logger:  logger,
		tracer:  tracer,
	}
}

func (bs *BookingCassandraStore) CloseSession() {
	bs.session.Close()
}

func (bs *BookingCassandraStore) CreateTables() {
	err := bs.session.Query(
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s
					(by_userid text, booking_id UUID, room_id text, room_type text,
					check_in TIMESTAMP, check_out TIMESTAMP, guests int,
					total_price double, amount_paid double, payment_option text,
					status text, special_requests text, created_at TIMESTAMP, updated_at TIMESTAMP,
					PRIMARY KEY ((by_userid), booking_id))
					WITH CLUSTERING ORDER BY (booking_id ASC)`, "booking_by_user")).Exec()
	if err != nil {
		bs.logger.Println(err)
	}

	err = bs.session.Query(
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s
					(by_userid text, booking_id UUID, room_id text, room_type text,
					check_in TIMESTAMP, check_out TIMESTAMP, guests int,
					total_price double, amount_paid double, payment_option text,
					status text, special_requests text, created_at TIMESTAMP, updated_at TIMESTAMP,
					PRIMARY KEY ((room_id), booking_id))
					WITH CLUSTERING ORDER BY (booking_id ASC)`, "booking_by_room")).Exec()
	if err != nil {
		bs.logger.Println(err)
	}
}

func (bs *BookingCassandraStore) Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	ctx, span := bs.tracer.Start(ctx, "BookingStore.Insert")
	defer span.End()

	bookingID, _ := gocql.RandomUUID()
	now := time.Now()

	insert := `(by_userid, booking_id, room_id, room_type, check_in, check_out, guests,
		total_price, amount_paid, payment_option, status, special_requests, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err := bs.session.Query(
		`INSERT INTO booking_by_user `+insert,
		booking.UserID, bookingID, booking.RoomID, booking.RoomType, booking.CheckIn,
		booking.CheckOut, booking.Guests, booking.TotalPrice, booking.AmountPaid,
		string(booking.PaymentOption), string(booking.Status), booking.SpecialRequests, now, now).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		bs.logger.Println(err)
		return nil, err
	}

	err = bs.session.Query(
		`INSERT INTO booking_by_room `+insert,
		booking.UserID, bookingID, booking.RoomID, booking.RoomType, booking.CheckIn,
		booking.CheckOut, booking.Guests, booking.TotalPrice, booking.AmountPaid,
		string(booking.PaymentOption), string(booking.Status), booking.SpecialRequests, now, now).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		bs.logger.Println(err)
		return nil, err
	}

	created := *booking
	created.ID = bookingID
	created.CreatedAt = now
	created.UpdatedAt = now

	return &created, nil
}

func (bs *BookingCassandraStore) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	ctx, span := bs.tracer.Start(ctx, "BookingStore.GetByID")
	defer span.End()

	parsedUUID, err := gocql.ParseUUID(bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf(localErrors.BookingNotFound)
	}

	scanner := bs.session.Query(
		`SELECT by_userid, booking_id, room_id, room_type, check_in, check_out, guests,
		total_price, amount_paid, payment_option, status, special_requests, created_at, updated_at
		FROM booking_by_user WHERE booking_id = ? ALLOW FILTERING`,
		parsedUUID).Iter().Scanner()

	found := false
	var booking domain.Booking
	for scanner.Next() {
		if err := scanBooking(scanner, &booking); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		found = true
	}

	if err := scanner.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		bs.logger.Println(err)
		return nil, err
	}

	if !found {
		return nil, fmt.Errorf(localErrors.BookingNotFound)
	}

	return &booking, nil
}

func (bs *BookingCassandraStore) GetByUser(ctx context.Context, userID string) (domain.Bookings, error) {
	ctx, span := bs.tracer.Start(ctx, "BookingStore.GetByUser")
	defer span.End()

	scanner := bs.session.Query(
		`SELECT by_userid, booking_id, room_id, room_type, check_in, check_out, guests,
		total_price, amount_paid, payment_option, status, special_requests, created_at, updated_at
		FROM booking_by_user WHERE by_userid = ?`, userID).Iter().Scanner()

	return bs.scanAll(scanner, span)
}

func (bs *BookingCassandraStore) GetByRoom(ctx context.Context, roomID string) (domain.Bookings, error) {
	ctx, span := bs.tracer.Start(ctx, "BookingStore.GetByRoom")
	defer span.End()

	scanner := bs.session.Query(
		`SELECT by_userid, booking_id, room_id, room_type, check_in, check_out, guests,
		total_price, amount_paid, payment_option, status, special_requests, created_at, updated_at
		FROM booking_by_room WHERE room_id = ?`, roomID).Iter().Scanner()

	return bs.scanAll(scanner, span)
}

// UpdateStatus rewrites the status column in both tables. Cancellation keeps
// the row so booking history and the upcoming/past partition still see it.
func (bs *BookingCassandraStore) UpdateStatus(ctx context.Context, booking *domain.Booking, status domain.BookingStatus) error {
	ctx, span := bs.tracer.Start(ctx, "BookingStore.UpdateStatus")
	defer span.End()

	now := time.Now()

	err := bs.session.Query(
		`UPDATE booking_by_user SET status = ?, updated_at = ? WHERE by_userid = ? AND booking_id = ?`,
		string(status), now, booking.UserID, booking.ID).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		bs.logger.Println(err)
		return err
	}

	err = bs.session.Query(
		`UPDATE booking_by_room SET status = ?, updated_at = ? WHERE room_id = ? AND booking_id = ?`,
		string(status), now, booking.RoomID, booking.ID).Exec()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		bs.logger.Println(err)
		return err
	}

	booking.Status = status
	booking.UpdatedAt = now
	return nil
}

func (bs *BookingCassandraStore) scanAll(scanner gocql.Scanner, span trace.Span) (domain.Bookings, error) {
	var bookings domain.Bookings
	for scanner.Next() {
		var b domain.Booking
		if err := scanBooking(scanner, &b); err != nil {
			span.SetStatus(codes.Error, err.Error())
			bs.logger.Println(err)
			return nil, err
		}
		bookings = append(bookings, &b)
	}
	if err := scanner.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		bs.logger.Println(err)
		return nil, err
	}
	return bookings, nil
}

func scanBooking(scanner gocql.Scanner, b *domain.Booking) error {
	var paymentOption, status string
	err := scanner.Scan(
		&b.UserID,
		&b.ID,
		&b.RoomID,
		&b.RoomType,
		&b.CheckIn,
		&b.CheckOut,
		&b.Guests,
		&b.TotalPrice,
		&b.AmountPaid,
		&paymentOption,
		&status,
		&b.SpecialRequests,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	b.PaymentOption = domain.PaymentOption(paymentOption)
	b.Status = domain.BookingStatus(status)
	return nil
}

package domain

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gocql/gocql"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	Guest = "Guest"
	Admin = "Admin"
)

// Credentials is the auth record, separate from the profile (mongo).
type Credentials struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"password"`
	Role     UserRole           `bson:"role" json:"role"`
	Verified bool               `bson:"verified" json:"verified"`
}

type Profile struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	FullName  string             `bson:"fullName" json:"full_name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	AvatarURL string             `bson:"avatarUrl,omitempty" json:"avatar_url,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updated_at,omitempty"`
}

type Claims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type RegisterValidation struct {
	UserToken string `json:"user_token"`
	MailToken string `json:"mail_token"`
}

type ResendVerificationRequest struct {
	UserToken string `json:"user_token"`
	UserMail  string `json:"user_mail"`
}

type RecoverPasswordRequest struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
	RepeatedNew string `json:"repeated_new"`
}

type PasswordChange struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

type ProfileUpdate struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

// RoomTypes lists the sellable categories, mirrored by the Room validate tag.
var RoomTypes = []string{"Standard", "Deluxe", "Suite", "Family", "Executive"}

type Room struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomNumber    string             `bson:"roomNumber,omitempty" json:"room_number"`
	RoomType      string             `bson:"roomType,omitempty" json:"room_type" validate:"required,oneof=Standard Deluxe Suite Family Executive"`
	Description   string             `bson:"description,omitempty" json:"description"`
	PricePerNight float64            `bson:"pricePerNight,omitempty" json:"price_per_night" validate:"required,gt=0"`
	Capacity      int                `bson:"capacity,omitempty" json:"capacity" validate:"required,min=1"`
	Amenities     []string           `bson:"amenities,omitempty" json:"amenities"`
	ImageURLs     []string           `bson:"imageUrls,omitempty" json:"image_urls"`
	TotalQuantity int                `bson:"totalQuantity,omitempty" json:"total_quantity" validate:"required,min=1"`
	IsAvailable   bool               `bson:"isAvailable" json:"is_available"`
}

// AvailableRoom is a room together with the quantity still free for a
// requested date range.
type AvailableRoom struct {
	Room
	AvailableQuantity int `json:"available_quantity"`
}

type PaymentOption string

const (
	PaymentFull PaymentOption = "full"
	PaymentHalf PaymentOption = "half"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// cassandra
type Booking struct {
	ID              gocql.UUID    `json:"id" db:"booking_id"`
	UserID          string        `json:"user_id" db:"by_userid"`
	RoomID          string        `json:"room_id" db:"room_id"`
	RoomType        string        `json:"room_type" db:"room_type"`
	CheckIn         time.Time     `json:"check_in_date" db:"check_in"`
	CheckOut        time.Time     `json:"check_out_date" db:"check_out"`
	Guests          int           `json:"guests" db:"guests"`
	TotalPrice      float64       `json:"total_price" db:"total_price"`
	AmountPaid      float64       `json:"amount_paid" db:"amount_paid"`
	PaymentOption   PaymentOption `json:"payment_option" db:"payment_option"`
	Status          BookingStatus `json:"status" db:"status"`
	SpecialRequests string        `json:"special_requests,omitempty" db:"special_requests"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

type Bookings []*Booking

// Overlaps reports whether the booking occupies any night inside
// [checkIn, checkOut). Touching ranges (checkout == next check-in) do not
// overlap.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn)
}

// CountOverlapping counts non-cancelled bookings occupying any night in
// [checkIn, checkOut).
func (bs Bookings) CountOverlapping(checkIn, checkOut time.Time) int {
	count := 0
	for _, b := range bs {
		if b.Status == StatusCancelled {
			continue
		}
		if b.Overlaps(checkIn, checkOut) {
			count++
		}
	}
	return count
}

type BookingRequest struct {
	RoomType        string        `json:"room_type"`
	CheckIn         time.Time     `json:"check_in_date"`
	CheckOut        time.Time     `json:"check_out_date"`
	Guests          int           `json:"guests"`
	PaymentOption   PaymentOption `json:"payment_option"`
	SpecialRequests string        `json:"special_requests,omitempty"`
}

// BookingList partitions a user's bookings by check-out against now.
type BookingList struct {
	Upcoming Bookings `json:"upcoming"`
	Past     Bookings `json:"past"`
}

type BookingStats struct {
	TotalBookings     int `json:"total_bookings"`
	UpcomingBookings  int `json:"upcoming_bookings"`
	CancelledBookings int `json:"cancelled_bookings"`
	CompletedBookings int `json:"completed_bookings"`
}

type SupportTicket struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"userId" json:"user_id"`
	Subject      string             `bson:"subject" json:"subject"`
	Description  string             `bson:"description" json:"description"`
	ContactEmail string             `bson:"contactEmail" json:"contact_email"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
}

const TicketStatusOpen = "open"

func (b *Booking) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(b)
}

func (b *Booking) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(b)
}

func (bs *Bookings) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(bs)
}

func (r *BookingRequest) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(r)
}

func (t *SupportTicket) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(t)
}

package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthStore interface {
	Register(ctx context.Context, credentials *Credentials) error
	GetByEmail(ctx context.Context, email string) (*Credentials, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Credentials, error)
	Update(ctx context.Context, credentials *Credentials) error
}

type AuthCache interface {
	PostCacheData(ctx context.Context, key string, value string) error
	GetCachedValue(ctx context.Context, key string) (string, error)
	DelCachedValue(ctx context.Context, key string) error
	DenylistToken(ctx context.Context, tokenID string, until time.Duration) error
	IsTokenDenylisted(ctx context.Context, tokenID string) (bool, error)
}

type UserStore interface {
	Insert(ctx context.Context, profile *Profile) (*Profile, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) (*Profile, error)
}

type RoomStore interface {
	GetAll(ctx context.Context) ([]*Room, error)
	GetAvailable(ctx context.Context) ([]*Room, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Room, error)
	GetByType(ctx context.Context, roomType string) (*Room, error)
	Insert(ctx context.Context, room *Room) (*Room, error)
	Update(ctx context.Context, room *Room) (*Room, error)
}

type BookingStore interface {
	Insert(ctx context.Context, booking *Booking) (*Booking, error)
	GetByID(ctx context.Context, bookingID string) (*Booking, error)
	GetByUser(ctx context.Context, userID string) (Bookings, error)
	GetByRoom(ctx context.Context, roomID string) (Bookings, error)
	UpdateStatus(ctx context.Context, booking *Booking, status BookingStatus) error
}

type SupportStore interface {
	Insert(ctx context.Context, ticket *SupportTicket) (*SupportTicket, error)
	GetByUser(ctx context.Context, userID string) ([]*SupportTicket, error)
}

// FileStore abstracts the distributed file system holding avatars and room
// images.
type FileStore interface {
	SaveFile(ctx context.Context, folderName, fileName string, content []byte) error
	GetFileContent(ctx context.Context, filePath string) ([]byte, error)
	GetFileNames(ctx context.Context, folderName string) ([]string, error)
	DeleteFile(ctx context.Context, folderName, fileName string) error
}

// ImageCache fronts the file store for hot image bytes (avatars, room
// photos). Keys are owner-scoped paths like "<userID>" or "<roomID>/<name>".
type ImageCache interface {
	Post(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
}

// Mailer sends transactional mail (verification, recovery, booking
// confirmations).
type Mailer interface {
	Send(to, subject, body string) error
}

package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
)

func noopTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

type stubBookingStore struct {
	bookings     domain.Bookings
	insertCalls  int
	getRoomCalls int
	updated      []domain.BookingStatus
	insertErr    error
}

func (s *stubBookingStore) Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.insertCalls++
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	stored := *booking
	s.bookings = append(s.bookings, &stored)
	return &stored, nil
}

func (s *stubBookingStore) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	for _, b := range s.bookings {
		if b.ID.String() == bookingID {
			return b, nil
		}
	}
	return nil, fmt.Errorf("Booking not found")
}

func (s *stubBookingStore) GetByUser(ctx context.Context, userID string) (domain.Bookings, error) {
	var out domain.Bookings
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBookingStore) GetByRoom(ctx context.Context, roomID string) (domain.Bookings, error) {
	s.getRoomCalls++
	var out domain.Bookings
	for _, b := range s.bookings {
		if b.RoomID == roomID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBookingStore) UpdateStatus(ctx context.Context, booking *domain.Booking, status domain.BookingStatus) error {
	booking.Status = status
	s.updated = append(s.updated, status)
	return nil
}

type stubRoomStore struct {
	rooms []*domain.Room
	calls int
}

func (s *stubRoomStore) GetAll(ctx context.Context) ([]*domain.Room, error) {
	s.calls++
	return s.rooms, nil
}

func (s *stubRoomStore) GetAvailable(ctx context.Context) ([]*domain.Room, error) {
	s.calls++
	var out []*domain.Room
	for _, r := range s.rooms {
		if r.IsAvailable {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRoomStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Room, error) {
	s.calls++
	for _, r := range s.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (s *stubRoomStore) GetByType(ctx context.Context, roomType string) (*domain.Room, error) {
	s.calls++
	for _, r := range s.rooms {
		if r.RoomType == roomType {
			return r, nil
		}
	}
	return nil, nil
}

func (s *stubRoomStore) Insert(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	room.ID = primitive.NewObjectID()
	s.rooms = append(s.rooms, room)
	return room, nil
}

func (s *stubRoomStore) Update(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	for i, r := range s.rooms {
		if r.ID == room.ID {
			s.rooms[i] = room
			return room, nil
		}
	}
	return nil, fmt.Errorf("no room updated")
}

type stubAuthStore struct {
	credentials []*domain.Credentials
}

func (s *stubAuthStore) Register(ctx context.Context, credentials *domain.Credentials) error {
	s.credentials = append(s.credentials, credentials)
	return nil
}

func (s *stubAuthStore) GetByEmail(ctx context.Context, email string) (*domain.Credentials, error) {
	for _, c := range s.credentials {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (s *stubAuthStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Credentials, error) {
	for _, c := range s.credentials {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (s *stubAuthStore) Update(ctx context.Context, credentials *domain.Credentials) error {
	for i, c := range s.credentials {
		if c.ID == credentials.ID {
			s.credentials[i] = credentials
			return nil
		}
	}
	return fmt.Errorf("no credentials updated")
}

type stubAuthCache struct {
	values    map[string]string
	denylist  map[string]bool
	postCalls int
}

func newStubAuthCache() *stubAuthCache {
	return &stubAuthCache{
		values:   make(map[string]string),
		denylist: make(map[string]bool),
	}
}

func (s *stubAuthCache) PostCacheData(ctx context.Context, key string, value string) error {
	s.postCalls++
	s.values[key] = value
	return nil
}

func (s *stubAuthCache) GetCachedValue(ctx context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("cache miss")
	}
	return value, nil
}

func (s *stubAuthCache) DelCachedValue(ctx context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func (s *stubAuthCache) DenylistToken(ctx context.Context, tokenID string, until time.Duration) error {
	s.denylist[tokenID] = true
	return nil
}

func (s *stubAuthCache) IsTokenDenylisted(ctx context.Context, tokenID string) (bool, error) {
	return s.denylist[tokenID], nil
}

type stubUserStore struct {
	profiles  []*domain.Profile
	updateErr error
}

func (s *stubUserStore) Insert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	profile.ID = primitive.NewObjectID()
	s.profiles = append(s.profiles, profile)
	return profile, nil
}

func (s *stubUserStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	for _, p := range s.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	for _, p := range s.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (s *stubUserStore) Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	for i, p := range s.profiles {
		if p.ID == profile.ID {
			s.profiles[i] = profile
			return profile, nil
		}
	}
	return nil, fmt.Errorf("no profile updated")
}

type stubFileStore struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{saved: make(map[string][]byte)}
}

func (s *stubFileStore) SaveFile(ctx context.Context, folderName, fileName string, content []byte) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[folderName+"/"+fileName] = content
	return nil
}

func (s *stubFileStore) GetFileContent(ctx context.Context, filePath string) ([]byte, error) {
	content, ok := s.saved[filePath]
	if !ok {
		return nil, fmt.Errorf("file not found")
	}
	return content, nil
}

func (s *stubFileStore) GetFileNames(ctx context.Context, folderName string) ([]string, error) {
	var names []string
	for key := range s.saved {
		if strings.HasPrefix(key, folderName+"/") {
			names = append(names, strings.TrimPrefix(key, folderName+"/"))
		}
	}
	return names, nil
}

func (s *stubFileStore) DeleteFile(ctx context.Context, folderName, fileName string) error {
	key := folderName + "/" + fileName
	delete(s.saved, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type stubImageCache struct {
	values  map[string][]byte
	dropped []string
}

func newStubImageCache() *stubImageCache {
	return &stubImageCache{values: make(map[string][]byte)}
}

func (s *stubImageCache) Post(ctx context.Context, key string, content []byte) error {
	s.values[key] = content
	return nil
}

func (s *stubImageCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("cache miss")
	}
	return value, nil
}

func (s *stubImageCache) Del(ctx context.Context, key string) error {
	delete(s.values, key)
	s.dropped = append(s.dropped, key)
	return nil
}

type stubMailer struct {
	sent []string
}

func (s *stubMailer) Send(to, subject, body string) error {
	s.sent = append(s.sent, to+": "+subject)
	return nil
}

type stubSupportStore struct {
	tickets []*domain.SupportTicket
}

func (s *stubSupportStore) Insert(ctx context.Context, ticket *domain.SupportTicket) (*domain.SupportTicket, error) {
	ticket.ID = primitive.NewObjectID()
	s.tickets = append(s.tickets, ticket)
	return ticket, nil
}

func (s *stubSupportStore) GetByUser(ctx context.Context, userID string) ([]*domain.SupportTicket, error) {
	var out []*domain.SupportTicket
	for _, t := range s.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
)

func newRoomFixture() (*RoomService, *stubRoomStore, *stubFileStore, *stubImageCache) {
	rooms := &stubRoomStore{}
	files := newStubFileStore()
	images := newStubImageCache()
	return NewRoomService(rooms, files, images, noopTracer()), rooms, files, images
}

func TestCreateRoom(t *testing.T) {
	service, _, _, _ := newRoomFixture()

	room := &domain.Room{
		RoomNumber:    "101",
		RoomType:      "Suite",
		PricePerNight: 250,
		Capacity:      4,
		TotalQuantity: 3,
		IsAvailable:   true,
	}

	created, status, err := service.CreateRoom(context.Background(), room)
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.False(t, created.ID.IsZero())
}

func TestCreateRoomRejectsUnknownType(t *testing.T) {
	service, rooms, _, _ := newRoomFixture()

	room := &domain.Room{
		RoomType:      "Penthouse",
		PricePerNight: 250,
		Capacity:      4,
		TotalQuantity: 3,
	}

	_, status, err := service.CreateRoom(context.Background(), room)
	require.Error(t, err)
	assert.Equal(t, 400, status)
	assert.Equal(t, errors.RoomTypeUnknown, err.Error())
	assert.Empty(t, rooms.rooms)
}

func TestCreateRoomRejectsBadNumbers(t *testing.T) {
	service, _, _, _ := newRoomFixture()

	tests := []struct {
		name string
		room domain.Room
	}{
		{"zero price", domain.Room{RoomType: "Suite", PricePerNight: 0, Capacity: 4, TotalQuantity: 3}},
		{"zero capacity", domain.Room{RoomType: "Suite", PricePerNight: 250, Capacity: 0, TotalQuantity: 3}},
		{"zero quantity", domain.Room{RoomType: "Suite", PricePerNight: 250, Capacity: 4, TotalQuantity: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, status, err := service.CreateRoom(context.Background(), &tt.room)
			require.Error(t, err)
			assert.Equal(t, 400, status)
		})
	}
}

func TestCreateRoomRejectsDuplicateType(t *testing.T) {
	service, _, _, _ := newRoomFixture()

	room := domain.Room{
		RoomType:      "Suite",
		PricePerNight: 250,
		Capacity:      4,
		TotalQuantity: 3,
	}

	_, _, err := service.CreateRoom(context.Background(), &room)
	require.NoError(t, err)

	second := room
	_, status, err := service.CreateRoom(context.Background(), &second)
	require.Error(t, err)
	assert.Equal(t, 409, status)
}

func TestSaveRoomImages(t *testing.T) {
	service, rooms, files, images := newRoomFixture()

	room := &domain.Room{
		RoomType:      "Deluxe",
		PricePerNight: 120,
		Capacity:      2,
		TotalQuantity: 5,
	}
	created, _, err := service.CreateRoom(context.Background(), room)
	require.NoError(t, err)
	require.Len(t, rooms.rooms, 1)

	status, err := service.SaveRoomImages(context.Background(), created.ID.Hex(), map[string][]byte{
		"front.jpg": {0x01},
		"bath.jpg":  {0x02},
	})
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Len(t, files.saved, 2)

	content, err := service.GetRoomImage(context.Background(), created.ID.Hex(), "front.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01}, content)

	// first read fills the cache
	assert.Equal(t, []byte{0x01}, images.values[created.ID.Hex()+"/front.jpg"])
}

func TestGetRoomImageNames(t *testing.T) {
	service, _, _, _ := newRoomFixture()

	room := &domain.Room{
		RoomType:      "Deluxe",
		PricePerNight: 120,
		Capacity:      2,
		TotalQuantity: 5,
	}
	created, _, err := service.CreateRoom(context.Background(), room)
	require.NoError(t, err)

	_, err = service.SaveRoomImages(context.Background(), created.ID.Hex(), map[string][]byte{
		"front.jpg": {0x01},
		"bath.jpg":  {0x02},
	})
	require.NoError(t, err)

	names, err := service.GetRoomImageNames(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"front.jpg", "bath.jpg"}, names)

	// another room's folder is empty
	names, err = service.GetRoomImageNames(context.Background(), "000000000000000000000000")
	require.NoError(t, err)
	assert.Empty(t, names)
}

package application

import (
	"context"
	goerrors "errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
)

type RoomService struct {
	rooms  domain.RoomStore
	files  domain.FileStore
	images domain.ImageCache
	tracer trace.Tracer
}

func NewRoomService(rooms domain.RoomStore, files domain.FileStore, images domain.ImageCache, tracer trace.Tracer) *RoomService {
	return &RoomService{
		rooms:  rooms,
		files:  files,
		images: images,
		tracer: tracer,
	}
}

func (service *RoomService) GetAllRooms(ctx context.Context) ([]*domain.Room, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.GetAllRooms")
	defer span.End()

	rooms, err := service.rooms.GetAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return rooms, nil
}

func (service *RoomService) GetRoom(ctx context.Context, id string) (*domain.Room, int, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.GetRoom")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusBadRequest, err
	}

	room, err := service.rooms.Get(ctx, objectID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	if room == nil {
		span.SetStatus(codes.Error, errors.RoomTypeUnknown)
		return nil, http.StatusNotFound, fmt.Errorf(errors.RoomTypeUnknown)
	}

	return room, http.StatusOK, nil
}

// CreateRoom registers a new room category. Admin only, enforced at the
// routing layer.
func (service *RoomService) CreateRoom(ctx context.Context, room *domain.Room) (*domain.Room, int, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.CreateRoom")
	defer span.End()

	if err := validateRoom(room); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusBadRequest, err
	}

	existing, err := service.rooms.GetByType(ctx, room.RoomType)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	if existing != nil {
		span.SetStatus(codes.Error, "room type already exists")
		return nil, http.StatusConflict, fmt.Errorf("Room type already exists")
	}

	created, err := service.rooms.Insert(ctx, room)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	return created, http.StatusOK, nil
}

func (service *RoomService) UpdateRoom(ctx context.Context, id string, room *domain.Room) (*domain.Room, int, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.UpdateRoom")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusBadRequest, err
	}

	existing, err := service.rooms.Get(ctx, objectID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	if existing == nil {
		span.SetStatus(codes.Error, errors.RoomTypeUnknown)
		return nil, http.StatusNotFound, fmt.Errorf(errors.RoomTypeUnknown)
	}

	room.ID = objectID
	if err := validateRoom(room); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusBadRequest, err
	}

	updated, err := service.rooms.Update(ctx, room)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	return updated, http.StatusOK, nil
}

// SaveRoomImages stores uploaded images under the room's folder on HDFS.
func (service *RoomService) SaveRoomImages(ctx context.Context, roomID string, files map[string][]byte) (int, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.SaveRoomImages")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(roomID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusBadRequest, err
	}

	room, err := service.rooms.Get(ctx, objectID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}
	if room == nil {
		span.SetStatus(codes.Error, errors.RoomTypeUnknown)
		return http.StatusNotFound, fmt.Errorf(errors.RoomTypeUnknown)
	}

	for fileName, content := range files {
		if err := service.files.SaveFile(ctx, roomID, fileName, content); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return http.StatusInternalServerError, err
		}
		// replaced images must not be served from the cache
		_ = service.images.Del(ctx, roomID+"/"+fileName)
	}

	return http.StatusOK, nil
}

func (service *RoomService) GetRoomImageNames(ctx context.Context, roomID string) ([]string, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.GetRoomImageNames")
	defer span.End()

	names, err := service.files.GetFileNames(ctx, roomID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return names, nil
}

// GetRoomImage serves image bytes through the cache, falling back to the
// file store on a miss.
func (service *RoomService) GetRoomImage(ctx context.Context, roomID, imageName string) ([]byte, error) {
	ctx, span := service.tracer.Start(ctx, "RoomService.GetRoomImage")
	defer span.End()

	key := roomID + "/" + imageName
	if cached, err := service.images.Get(ctx, key); err == nil {
		return cached, nil
	}

	content, err := service.files.GetFileContent(ctx, key)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	_ = service.images.Post(ctx, key, content)

	return content, nil
}

var validate = validator.New()

func validateRoom(room *domain.Room) error {
	err := validate.Struct(room)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if goerrors.As(err, &fieldErrors) {
		for _, fieldErr := range fieldErrors {
			if fieldErr.Field() == "RoomType" {
				return fmt.Errorf(errors.RoomTypeUnknown)
			}
		}
	}
	return err
}

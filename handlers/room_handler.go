package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/errors"
	application "github.com/sendexa/Drush-Booking/service"
)

const maxImageUpload = 10 << 20

type RoomHandler struct {
	logger   *logrus.Logger
	rooms    *application.RoomService
	bookings *application.BookingService
	tracer   trace.Tracer
}

func NewRoomHandler(logger *logrus.Logger, rooms *application.RoomService, bookings *application.BookingService, tracer trace.Tracer) *RoomHandler {
	return &RoomHandler{
		logger:   logger,
		rooms:    rooms,
		bookings: bookings,
		tracer:   tracer,
	}
}

func (handler *RoomHandler) Init(router *mux.Router) {
	router.HandleFunc("/rooms", handler.GetAllRooms).Methods("GET")
	router.HandleFunc("/rooms", handler.CreateRoom).Methods("POST")
	router.HandleFunc("/rooms/available", handler.GetAvailableRooms).Methods("GET")
	router.HandleFunc("/rooms/{id}", handler.GetRoom).Methods("GET")
	router.HandleFunc("/rooms/{id}", handler.UpdateRoom).Methods("PATCH")
	router.HandleFunc("/rooms/{id}/images", handler.UploadImages).Methods("POST")
	router.HandleFunc("/rooms/{id}/images", handler.GetImageNames).Methods("GET")
	router.HandleFunc("/rooms/{id}/images/{imageName}", handler.GetImage).Methods("GET")
}

func (handler *RoomHandler) GetAllRooms(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.GetAllRooms")
	defer span.End()

	rooms, err := handler.rooms.GetAllRooms(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(rooms, writer)
}

// GetAvailableRooms expects check_in and check_out query parameters as
// RFC 3339 dates and returns every sellable room with its remaining
// quantity for that range.
func (handler *RoomHandler) GetAvailableRooms(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.GetAvailableRooms")
	defer span.End()

	checkIn, err := parseDate(req.URL.Query().Get("check_in"))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid check_in date", http.StatusBadRequest)
		return
	}
	checkOut, err := parseDate(req.URL.Query().Get("check_out"))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid check_out date", http.StatusBadRequest)
		return
	}

	available, err := handler.bookings.GetAvailableRooms(ctx, checkIn, checkOut)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err.Error() == errors.InvalidDateRange {
			http.Error(writer, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(available, writer)
}

func (handler *RoomHandler) GetRoom(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.GetRoom")
	defer span.End()

	vars := mux.Vars(req)
	room, status, err := handler.rooms.GetRoom(ctx, vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), status)
		return
	}

	jsonResponse(room, writer)
}

func (handler *RoomHandler) CreateRoom(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.CreateRoom")
	defer span.End()

	var room domain.Room
	if err := json.NewDecoder(req.Body).Decode(&room); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	created, status, err := handler.rooms.CreateRoom(ctx, &room)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), status)
		return
	}

	handler.logger.Infof("room %s (%s) created", created.ID.Hex(), created.RoomType)
	writer.WriteHeader(http.StatusCreated)
	jsonResponse(created, writer)
}

func (handler *RoomHandler) UpdateRoom(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.UpdateRoom")
	defer span.End()

	vars := mux.Vars(req)

	var room domain.Room
	if err := json.NewDecoder(req.Body).Decode(&room); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	updated, status, err := handler.rooms.UpdateRoom(ctx, vars["id"], &room)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), status)
		return
	}

	jsonResponse(updated, writer)
}

func (handler *RoomHandler) UploadImages(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.UploadImages")
	defer span.End()

	vars := mux.Vars(req)

	if err := req.ParseMultipartForm(maxImageUpload); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	files := make(map[string][]byte)
	for _, header := range req.MultipartForm.File["images"] {
		file, err := header.Open()
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			http.Error(writer, err.Error(), http.StatusBadRequest)
			return
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			http.Error(writer, err.Error(), http.StatusBadRequest)
			return
		}
		files[header.Filename] = content
	}

	if len(files) == 0 {
		http.Error(writer, "No images in request", http.StatusBadRequest)
		return
	}

	status, err := handler.rooms.SaveRoomImages(ctx, vars["id"], files)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), status)
		return
	}

	handler.logger.Infof("stored %d images for room %s", len(files), vars["id"])
	writer.WriteHeader(status)
}

func (handler *RoomHandler) GetImageNames(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.GetImageNames")
	defer span.End()

	vars := mux.Vars(req)
	names, err := handler.rooms.GetRoomImageNames(ctx, vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(names, writer)
}

func (handler *RoomHandler) GetImage(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "RoomHandler.GetImage")
	defer span.End()

	vars := mux.Vars(req)
	content, err := handler.rooms.GetRoomImage(ctx, vars["id"], vars["imageName"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusNotFound)
		return
	}

	writer.Header().Set("Content-Type", http.DetectContentType(content))
	writer.Write(content)
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

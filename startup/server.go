package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/sendexa/Drush-Booking/cache"
	"github.com/sendexa/Drush-Booking/casbinAuthorization"
	"github.com/sendexa/Drush-Booking/domain"
	"github.com/sendexa/Drush-Booking/handlers"
	"github.com/sendexa/Drush-Booking/metrics"
	application "github.com/sendexa/Drush-Booking/service"
	"github.com/sendexa/Drush-Booking/startup/config"
	"github.com/sendexa/Drush-Booking/storage"
	"github.com/sendexa/Drush-Booking/store"
)

type Server struct {
	config *config.Config
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
	}
}

var Logger = logrus.New()

const LogFilePath = "/app/logs/booking.log"

type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Data["id"] = generateUniqueID()

	msg := fmt.Sprintf("[%s] [%s] [%s] %s\n",
		entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		entry.Level,
		entry.Data["id"],
		entry.Message,
	)

	return []byte(msg), nil
}

func generateUniqueID() string {
	return fmt.Sprintf("ID-%d", time.Now().UnixNano())
}

func initLogger() {
	writer, err := rotatelogs.New(
		LogFilePath+"_%Y%m%d%H%M",
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		Logger.Fatalf("Failed to create rotatelogs hook: %v", err)
	}
	Logger.SetOutput(writer)

	Logger.SetFormatter(&CustomFormatter{})
}

func (server *Server) Start() {
	initLogger()
	metrics.Register()

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		err := mongoClient.Disconnect(ctx)
		if err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}(mongoClient, context.Background())

	redisClient, err := store.GetRedisClient(server.config.RedisHost, server.config.RedisPort)
	if err != nil {
		log.Fatal(err)
	}

	cassandraLogger := log.New(os.Stdout, "[booking-store] ", log.LstdFlags)
	session, err := store.GetCassandraSession(server.config.CassandraHost, cassandraLogger)
	if err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("booking_service")
	otel.SetTextMapPropagator(propagation.TraceContext{})

	fileStorage, err := storage.New(server.config.HDFSUri, Logger, tracer)
	if err != nil {
		log.Fatal(err)
	}
	defer fileStorage.Close()

	if err := fileStorage.CreateDirectoriesStart(); err != nil {
		Logger.Warnf("could not prepare storage root: %v", err)
	}

	authStore := store.NewAuthMongoDBStore(mongoClient)
	authCache := store.NewAuthRedisCache(redisClient, tracer)
	userStore := store.NewUserMongoDBStore(mongoClient, tracer)
	roomStore := store.NewRoomMongoDBStore(mongoClient, tracer)
	supportStore := store.NewSupportMongoDBStore(mongoClient, tracer)
	imageCache := cache.New(redisClient, cassandraLogger, tracer)

	bookingStore := store.NewBookingCassandraStore(session, cassandraLogger, tracer)
	bookingStore.CreateTables()

	mailer := application.NewSMTPMailer()

	authService := application.NewAuthService(authStore, userStore, authCache, mailer)
	bookingService := application.NewBookingService(bookingStore, roomStore, userStore, mailer, tracer)
	roomService := application.NewRoomService(roomStore, fileStorage, imageCache, tracer)
	userService := application.NewUserService(userStore, fileStorage, imageCache, tracer)
	supportService := application.NewSupportService(supportStore, tracer)

	authHandler := handlers.NewAuthHandler(Logger, authService, tracer)
	bookingHandler := handlers.NewBookingHandler(Logger, bookingService, tracer)
	roomHandler := handlers.NewRoomHandler(Logger, roomService, bookingService, tracer)
	userHandler := handlers.NewUserHandler(Logger, userService, tracer)
	supportHandler := handlers.NewSupportHandler(Logger, supportService, tracer)

	server.start(authHandler, bookingHandler, roomHandler, userHandler, supportHandler, authCache)
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store.GetClientWithHTTPConfig(server.config.MongoHost, server.config.MongoPort, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) start(
	authHandler *handlers.AuthHandler,
	bookingHandler *handlers.BookingHandler,
	roomHandler *handlers.RoomHandler,
	userHandler *handlers.UserHandler,
	supportHandler *handlers.SupportHandler,
	authCache domain.AuthCache,
) {
	enforcer, err := casbinAuthorization.InitializeEnforcer("./rbac_model.conf", "./policy.csv")
	if err != nil {
		log.Fatalf("Failed to initialize casbin enforcer: %v", err)
	}

	router := mux.NewRouter()
	router.Use(handlers.ExtractTraceInfoMiddleware)
	router.Use(casbinAuthorization.CasbinMiddleware(enforcer, authCache, Logger))
	router.Use(handlers.MiddlewareContentTypeSet)

	authHandler.Init(router)
	bookingHandler.Init(router)
	roomHandler.Init(router)
	userHandler.Init(router)
	supportHandler.Init(router)

	router.Path("/metrics").Handler(promhttp.Handler())

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", server.config.Port),
		Handler: cors(router),
	}

	wait := time.Second * 15
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("booking_service"),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}

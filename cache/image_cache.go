package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
)

type ImageCache struct {
	cli    *redis.Client
	logger *log.Logger
	tracer trace.Tracer
}

func New(client *redis.Client, logger *log.Logger, tracer trace.Tracer) domain.ImageCache {
	return &ImageCache{
		cli:    client,
		logger: logger,
		tracer: tracer,
	}
}

func (ic *ImageCache) Ping() {
	val, _ := ic.cli.Ping().Result()
	ic.logger.Println(val)
}

// Set image bytes with default expiration
func (ic *ImageCache) Post(ctx context.Context, key string, content []byte) error {
	ctx, span := ic.tracer.Start(ctx, "ImageCache.Post")
	defer span.End()

	err := ic.cli.Set(constructKey(key), content, 30*time.Minute).Err()
	if err == nil {
		ic.logger.Println("Cache hit - set image")
	}
	return err
}

func (ic *ImageCache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := ic.tracer.Start(ctx, "ImageCache.Get")
	defer span.End()

	value, err := ic.cli.Get(constructKey(key)).Bytes()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		ic.logger.Println(err)
		return nil, err
	}

	ic.logger.Println("Cache hit - get image")
	return value, nil
}

// Del drops a cached image after an upload so stale bytes are not served.
func (ic *ImageCache) Del(ctx context.Context, key string) error {
	ctx, span := ic.tracer.Start(ctx, "ImageCache.Del")
	defer span.End()

	return ic.cli.Del(constructKey(key)).Err()
}

func constructKey(key string) string {
	return fmt.Sprintf("image:%s", key)
}

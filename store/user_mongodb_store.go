package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
)

const (
	userDatabase   = "user"
	userCollection = "profiles"
)

type UserMongoDBStore struct {
	profiles *mongo.Collection
	tracer   trace.Tracer
}

func NewUserMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.UserStore {
	profiles := client.Database(userDatabase).Collection(userCollection)
	return &UserMongoDBStore{
		profiles: profiles,
		tracer:   tracer,
	}
}

func (store *UserMongoDBStore) Insert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Insert")
	defer span.End()

	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = time.Now()
	result, err := store.profiles.InsertOne(ctx, profile)
	if err != nil {
		return nil, err
	}
	profile.ID = result.InsertedID.(primitive.ObjectID)
	return profile, nil
}

func (store *UserMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(ctx, filter)
}

func (store *UserMongoDBStore) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetByEmail")
	defer span.End()

	filter := bson.M{"email": email}
	return store.filterOne(ctx, filter)
}

func (store *UserMongoDBStore) Update(ctx context.Context, updateProfile *domain.Profile) (*domain.Profile, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Update")
	defer span.End()

	updateProfile.UpdatedAt = time.Now()
	updateData := bson.M{
		"fullName":  updateProfile.FullName,
		"phone":     updateProfile.Phone,
		"avatarUrl": updateProfile.AvatarURL,
		"updatedAt": updateProfile.UpdatedAt,
	}

	filter := bson.M{"_id": updateProfile.ID}
	update := bson.M{"$set": updateData}

	result, err := store.profiles.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}

	if result.MatchedCount == 0 {
		return nil, errors.New("No profile updated")
	}

	return updateProfile, nil
}

func (store *UserMongoDBStore) filterOne(ctx context.Context, filter interface{}) (*domain.Profile, error) {
	result := store.profiles.FindOne(ctx, filter)

	var profile domain.Profile
	if err := result.Decode(&profile); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

package store

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sendexa/Drush-Booking/domain"
)

const (
	authDatabase   = "user_credentials"
	authCollection = "credentials"
)

type AuthMongoDBStore struct {
	credentials *mongo.Collection
}

func NewAuthMongoDBStore(client *mongo.Client) domain.AuthStore {
	credentials := client.Database(authDatabase).Collection(authCollection)
	return &AuthMongoDBStore{
		credentials: credentials,
	}
}

// Register inserts the credentials row. The caller sets the ID so that
// credentials and profile share one identifier.
func (store *AuthMongoDBStore) Register(ctx context.Context, credentials *domain.Credentials) error {
	if credentials.ID.IsZero() {
		credentials.ID = primitive.NewObjectID()
	}
	result, err := store.credentials.InsertOne(ctx, credentials)
	if err != nil {
		return err
	}
	credentials.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (store *AuthMongoDBStore) GetByEmail(ctx context.Context, email string) (*domain.Credentials, error) {
	filter := bson.M{"email": email}
	return store.filterOne(ctx, filter)
}

func (store *AuthMongoDBStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Credentials, error) {
	filter := bson.M{"_id": id}
	return store.filterOne(ctx, filter)
}

func (store *AuthMongoDBStore) Update(ctx context.Context, credentials *domain.Credentials) error {
	filter := bson.M{"_id": credentials.ID}
	update := bson.M{"$set": credentials}

	_, err := store.credentials.UpdateOne(ctx, filter, update)
	return err
}

func (store *AuthMongoDBStore) filterOne(ctx context.Context, filter interface{}) (*domain.Credentials, error) {
	result := store.credentials.FindOne(ctx, filter)

	var credentials domain.Credentials
	if err := result.Decode(&credentials); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		log.Println("Error decoding credentials:", err)
		return nil, err
	}

	return &credentials, nil
}

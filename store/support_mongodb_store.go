package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"

	"github.com/sendexa/Drush-Booking/domain"
)

const (
	supportDatabase   = "support"
	supportCollection = "support_tickets"
)

type SupportMongoDBStore struct {
	tickets *mongo.Collection
	tracer  trace.Tracer
}

func NewSupportMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.SupportStore {
	tickets := client.Database(supportDatabase).Collection(supportCollection)
	return &SupportMongoDBStore{
		tickets: tickets,
		tracer:  tracer,
	}
}

func (store *SupportMongoDBStore) Insert(ctx context.Context, ticket *domain.SupportTicket) (*domain.SupportTicket, error) {
	ctx, span := store.tracer.Start(ctx, "SupportStore.Insert")
	defer span.End()

	ticket.ID = primitive.NewObjectID()
	ticket.CreatedAt = time.Now()
	result, err := store.tickets.InsertOne(ctx, ticket)
	if err != nil {
		return nil, err
	}
	ticket.ID = result.InsertedID.(primitive.ObjectID)
	return ticket, nil
}

func (store *SupportMongoDBStore) GetByUser(ctx context.Context, userID string) ([]*domain.SupportTicket, error) {
	ctx, span := store.tracer.Start(ctx, "SupportStore.GetByUser")
	defer span.End()

	filter := bson.M{"userId": userID}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := store.tickets.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []*domain.SupportTicket
	for cursor.Next(ctx) {
		var ticket domain.SupportTicket
		if err := cursor.Decode(&ticket); err != nil {
			return nil, err
		}
		tickets = append(tickets, &ticket)
	}
	return tickets, cursor.Err()
}

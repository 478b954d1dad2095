package recordsRepo

import (
	"context"

	"jetset/database"
	"jetset/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingRecordRepository interface {
	Create(ctx context.Context, booking models.Booking) (string, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Booking, error)
	SetReminderSent(ctx context.Context, id string) error
	DeleteByID(ctx context.Context, id string) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a new BookingRecordRepository instance using MongoDB.
func NewMongoBookingRepo() BookingRecordRepository {
	db := database.MongoClient.Database("jetset")
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}

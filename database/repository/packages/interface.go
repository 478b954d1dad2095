package packagesRepo

import (
	"context"

	"jetset/database"
	"jetset/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type TourPackageRepository interface {
	GetAll(ctx context.Context) ([]models.TourPackage, error)
	FindByFields(ctx context.Context, activity models.Activity, vehicleModel string, durationMin int) (*models.TourPackage, error)
	Upsert(ctx context.Context, pkg models.TourPackage) error
	DeleteByID(ctx context.Context, id string) error
}

type mongoPackageRepo struct {
	coll *mongo.Collection
}

// NewMongoPackageRepo returns a new TourPackageRepository instance using MongoDB.
func NewMongoPackageRepo() TourPackageRepository {
	db := database.MongoClient.Database("jetset")
	return &mongoPackageRepo{
		coll: db.Collection("packages"),
	}
}

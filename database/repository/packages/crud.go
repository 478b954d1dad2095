package packagesRepo

import (
	"context"
	"errors"
	"time"

	"jetset/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetAll returns every tour package in the knowledge base.
func (r *mongoPackageRepo) GetAll(ctx context.Context) ([]models.TourPackage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "activity", Value: 1}, {Key: "duration_min", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pkgs []models.TourPackage
	if err := cursor.All(ctx, &pkgs); err != nil {
		return nil, err
	}
	return pkgs, nil
}

// FindByFields returns the package matching the exact combination. A miss
// surfaces as mongo.ErrNoDocuments for the caller to map.
func (r *mongoPackageRepo) FindByFields(ctx context.Context, activity models.Activity, vehicleModel string, durationMin int) (*models.TourPackage, error) {
	filter := bson.M{
		"activity":     activity,
		"duration_min": durationMin,
	}
	if vehicleModel != "" {
		filter["vehicle_model"] = vehicleModel
	}
	var pkg models.TourPackage
	if err := r.coll.FindOne(ctx, filter).Decode(&pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// Upsert inserts or replaces a package keyed by its combination.
func (r *mongoPackageRepo) Upsert(ctx context.Context, pkg models.TourPackage) error {
	if pkg.ID == "" {
		pkg.ID = uuid.New().String()
	}
	pkg.UpdatedAt = time.Now()

	filter := bson.M{
		"activity":      pkg.Activity,
		"vehicle_model": pkg.VehicleModel,
		"duration_min":  pkg.DurationMin,
	}
	update := bson.M{"$set": pkg}
	opts := options.Update().SetUpsert(true)
	_, err := r.coll.UpdateOne(ctx, filter, update, opts)
	return err
}

// DeleteByID removes a package by ID.
func (r *mongoPackageRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("package not found")
	}
	return nil
}

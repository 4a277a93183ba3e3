package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/travlrgetaways/travlr/app/apperr"
	"github.com/travlrgetaways/travlr/app/models"
)

// TripRepository manages the travel catalog.
type TripRepository interface {
	List(ctx context.Context) ([]models.Trip, error)
	FindByCode(ctx context.Context, code string) (*models.Trip, error)
	Create(ctx context.Context, trip *models.Trip) error
	Update(ctx context.Context, code string, trip *models.Trip) (*models.Trip, error)
	Delete(ctx context.Context, code string) error
	SetImage(ctx context.Context, code, imageURL string) error
}

// RoomRepository and MealRepository are read-only catalogs.
type RoomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
}

type MealRepository interface {
	List(ctx context.Context) ([]models.Meal, error)
}

type mongoTripRepository struct {
	col *mongo.Collection
}

func NewTripRepository(db *mongo.Database) TripRepository {
	return &mongoTripRepository{col: db.Collection("trips")}
}

func (r *mongoTripRepository) List(ctx context.Context) ([]models.Trip, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var trips []models.Trip
	if err := cur.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *mongoTripRepository) FindByCode(ctx context.Context, code string) (*models.Trip, error) {
	var trip models.Trip
	err := r.col.FindOne(ctx, bson.M{"code": code}).Decode(&trip)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *mongoTripRepository) Create(ctx context.Context, trip *models.Trip) error {
	_, err := r.col.InsertOne(ctx, trip)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.ErrDuplicateCode
	}
	return err
}

func (r *mongoTripRepository) Update(ctx context.Context, code string, trip *models.Trip) (*models.Trip, error) {
	res, err := r.col.ReplaceOne(ctx, bson.M{"code": code}, trip)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, apperr.ErrNotFound
	}
	return trip, nil
}

func (r *mongoTripRepository) Delete(ctx context.Context, code string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"code": code})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *mongoTripRepository) SetImage(ctx context.Context, code, imageURL string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"image": imageURL}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

type mongoRoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) RoomRepository {
	return &mongoRoomRepository{col: db.Collection("rooms")}
}

func (r *mongoRoomRepository) List(ctx context.Context) ([]models.Room, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rooms []models.Room
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

type mongoMealRepository struct {
	col *mongo.Collection
}

func NewMealRepository(db *mongo.Database) MealRepository {
	return &mongoMealRepository{col: db.Collection("meals")}
}

func (r *mongoMealRepository) List(ctx context.Context) ([]models.Meal, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var meals []models.Meal
	if err := cur.All(ctx, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

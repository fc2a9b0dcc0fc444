package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "clinicbook/internal/bookings/errors"
	"clinicbook/pkg/client"
	"clinicbook/pkg/config"
	"clinicbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg: cfg,
		db:  db,
		// Reads go to the primary so the commit-time re-check sees every
		// acknowledged insert.
		collection: db.Collection(CollectionName, options.Collection().
			SetReadPreference(readpref.Primary())),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := client.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	doc := *booking
	doc.ID = ""
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicateSlot, booking.Slot().Key())
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	ctx, cancel := client.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	bookings := make([]*model.Booking, 0, len(docs))
	for _, d := range docs {
		bookings = append(bookings, d.toModel())
	}
	return bookings, nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := client.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) Ping(ctx context.Context) error {
	ctx, cancel := client.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if err := r.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping mongo: %w", err)
	}
	return nil
}

// bookingDocument decodes _id as an ObjectID; model.Booking keeps IDs as
// strings so the other stores can share it.
type bookingDocument struct {
	ID               primitive.ObjectID     `bson:"_id"`
	Date             string                 `bson:"date"`
	Time             string                 `bson:"time"`
	PatientName      string                 `bson:"patient_name"`
	PatientPhone     string                 `bson:"patient_phone"`
	PatientEmail     string                 `bson:"patient_email,omitempty"`
	Reason           string                 `bson:"reason,omitempty"`
	ConsultationType model.ConsultationType `bson:"consultation_type"`
	CreatedAt        time.Time              `bson:"created_at"`
}

func (d bookingDocument) toModel() *model.Booking {
	return &model.Booking{
		ID:               d.ID.Hex(),
		Date:             d.Date,
		Time:             d.Time,
		PatientName:      d.PatientName,
		PatientPhone:     d.PatientPhone,
		PatientEmail:     d.PatientEmail,
		Reason:           d.Reason,
		ConsultationType: d.ConsultationType,
		CreatedAt:        d.CreatedAt.UTC(),
	}
}

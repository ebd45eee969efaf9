package ledgerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"frontdesk/database"
	"frontdesk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLedgerRepo implements LedgerRepository on a booking_sets collection
// holding one document per provider. Optimistic concurrency: every update
// filters on the version observed at snapshot time and increments it, so a
// lost race surfaces as a zero-match update instead of a silent overwrite.
type MongoLedgerRepo struct {
	coll *mongo.Collection
}

// NewMongoLedgerRepo creates the repo and ensures the provider_id unique index.
func NewMongoLedgerRepo() (*MongoLedgerRepo, error) {
	coll := database.Collection("booking_sets")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "provider_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure booking_sets index: %w", err)
	}
	return &MongoLedgerRepo{coll: coll}, nil
}

func (r *MongoLedgerRepo) Snapshot(ctx context.Context, providerID string) (BookingSet, error) {
	var set BookingSet
	err := r.coll.FindOne(ctx, bson.M{"provider_id": providerID}).Decode(&set)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return BookingSet{ProviderID: providerID, Version: 0}, nil
	}
	if err != nil {
		return BookingSet{}, fmt.Errorf("failed to snapshot bookings for provider %s: %w", providerID, err)
	}
	return set, nil
}

func (r *MongoLedgerRepo) InsertBooking(ctx context.Context, providerID string, version int64, b models.Booking) error {
	filter := bson.M{"provider_id": providerID, "version": version}
	update := bson.M{
		"$push": bson.M{"bookings": b},
		"$inc":  bson.M{"version": 1},
	}
	// Upsert only from the empty set; the equality filter seeds the new
	// document, a duplicate key means someone else created it first.
	opts := options.Update().SetUpsert(version == 0)
	res, err := r.coll.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("failed to insert booking %s: %w", b.ID, err)
	}
	if res.ModifiedCount == 0 && res.UpsertedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *MongoLedgerRepo) RemoveBooking(ctx context.Context, providerID string, version int64, bookingID string) error {
	filter := bson.M{"provider_id": providerID, "version": version}
	update := bson.M{
		"$pull": bson.M{"bookings": bson.M{"id": bookingID}},
		"$inc":  bson.M{"version": 1},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove booking %s: %w", bookingID, err)
	}
	if res.ModifiedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *MongoLedgerRepo) TransitionBooking(ctx context.Context, providerID string, version int64, bookingID string, from, to models.BookingStatus, supersededBy string) error {
	filter := bson.M{
		"provider_id": providerID,
		"version":     version,
		"bookings":    bson.M{"$elemMatch": bson.M{"id": bookingID, "status": from}},
	}
	set := bson.M{
		"bookings.$.status":     to,
		"bookings.$.updated_at": time.Now(),
	}
	if supersededBy != "" {
		set["bookings.$.superseded_by"] = supersededBy
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set, "$inc": bson.M{"version": 1}})
	if err != nil {
		return fmt.Errorf("failed to transition booking %s: %w", bookingID, err)
	}
	if res.ModifiedCount > 0 {
		return nil
	}
	return r.classifyMiss(ctx, providerID, version, bookingID, from)
}

func (r *MongoLedgerRepo) SwapBooking(ctx context.Context, providerID string, version int64, oldID string, nb models.Booking) error {
	filter := bson.M{
		"provider_id": providerID,
		"version":     version,
		"bookings":    bson.M{"$elemMatch": bson.M{"id": oldID, "status": models.BookingStatusConfirmed}},
	}
	update := bson.M{
		"$set": bson.M{
			"bookings.$.status":        models.BookingStatusRescheduled,
			"bookings.$.superseded_by": nb.ID,
			"bookings.$.updated_at":    time.Now(),
		},
		"$push": bson.M{"bookings": nb},
		"$inc":  bson.M{"version": 1},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to swap booking %s: %w", oldID, err)
	}
	if res.ModifiedCount > 0 {
		return nil
	}
	return r.classifyMiss(ctx, providerID, version, oldID, models.BookingStatusConfirmed)
}

// classifyMiss distinguishes why a guarded update matched nothing: a stale
// version, a missing booking, or a booking in the wrong status.
func (r *MongoLedgerRepo) classifyMiss(ctx context.Context, providerID string, version int64, bookingID string, from models.BookingStatus) error {
	set, err := r.Snapshot(ctx, providerID)
	if err != nil {
		return err
	}
	if set.Version != version {
		return ErrVersionConflict
	}
	for _, b := range set.Bookings {
		if b.ID == bookingID {
			if b.Status != from {
				return ErrStatusMismatch
			}
			return ErrVersionConflict
		}
	}
	return ErrBookingNotFound
}

func (r *MongoLedgerRepo) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	var set BookingSet
	err := r.coll.FindOne(ctx, bson.M{"bookings.id": bookingID}).Decode(&set)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	for _, b := range set.Bookings {
		if b.ID == bookingID {
			cp := b
			return &cp, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (r *MongoLedgerRepo) ConfirmedInRange(ctx context.Context, providerID string, window models.Interval) ([]models.Booking, error) {
	set, err := r.Snapshot(ctx, providerID)
	if err != nil {
		return nil, err
	}
	var out []models.Booking
	for _, b := range set.Confirmed() {
		if b.Interval().Overlaps(window) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *MongoLedgerRepo) ActiveForCaller(ctx context.Context, callerID string) ([]models.Booking, error) {
	filter := bson.M{"bookings": bson.M{"$elemMatch": bson.M{
		"caller.caller_id": callerID,
		"status":           bson.M{"$in": []models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}},
	}}}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query caller bookings: %w", err)
	}
	defer cursor.Close(ctx)
	var out []models.Booking
	for cursor.Next(ctx) {
		var set BookingSet
		if err := cursor.Decode(&set); err != nil {
			return nil, fmt.Errorf("failed to decode booking set: %w", err)
		}
		for _, b := range set.Bookings {
			if b.Caller.CallerID != callerID {
				continue
			}
			if b.Status == models.BookingStatusPending || b.Status == models.BookingStatusConfirmed {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

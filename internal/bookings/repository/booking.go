package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "upperroom/internal/bookings/errors"
	"upperroom/pkg/config"
	"upperroom/pkg/model"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type BookingRepository interface {
	EnsureIndexes(ctx context.Context) error
	ReserveSlot(ctx context.Context, booking *model.Booking) (bool, error)
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindBookedSlot(ctx context.Context, date, role string) (*model.Booking, error)
	FindBookedByPerson(ctx context.Context, date, fullName string) (*model.Booking, error)
	FindBookedConflict(ctx context.Context, date, role, excludeID string) (*model.Booking, error)
	FindBookedInRange(ctx context.Context, startDate, endDate string) ([]*model.Booking, error)
	FindBookedBetween(ctx context.Context, startInclusive, endExclusive string) ([]*model.Booking, error)
	FindForDay(ctx context.Context, date string) ([]*model.Booking, error)
	FindWithFilters(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error)
	FindBookedByName(ctx context.Context, name string) ([]*model.Booking, error)
	Update(ctx context.Context, id string, set bson.M) error
	Delete(ctx context.Context, id string) error
	RoleCounts(ctx context.Context, startInclusive, endExclusive string) (map[string]int64, error)
	ParticipantStats(ctx context.Context, startInclusive, endExclusive string) ([]model.ParticipantStat, error)
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureIndexes creates the compound index backing the slot reservation
// primitive. The partial unique index on (date, role) over Booked records is
// what makes concurrent upserts on the same slot collapse to a single insert.
func (r *mongoBookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "role", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "role", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": model.StatusBooked}),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

// ReserveSlot atomically inserts the booking unless a Booked record already
// holds its (date, role) slot. It reports inserted=false when the slot was
// held, which callers must treat as a conflict even after their pre-checks
// passed. Any other store failure comes back as an error, never as a
// conflict.
func (r *mongoBookingRepository) ReserveSlot(ctx context.Context, booking *model.Booking) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"date":   booking.Date,
		"role":   booking.Role,
		"status": model.StatusBooked,
	}
	update := bson.M{"$setOnInsert": booking}

	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// Two concurrent upserts past the match phase race on the partial
		// unique index; the loser surfaces as a duplicate key, which is the
		// same "slot already held" outcome.
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to reserve slot: %w", err)
	}

	return result.UpsertedCount > 0, nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindBookedSlot(ctx context.Context, date, role string) (*model.Booking, error) {
	return r.findOneBooked(ctx, bson.M{
		"date": date,
		"role": role,
	})
}

func (r *mongoBookingRepository) FindBookedByPerson(ctx context.Context, date, fullName string) (*model.Booking, error) {
	return r.findOneBooked(ctx, bson.M{
		"date":      date,
		"full_name": bson.M{"$regex": "^" + regexp.QuoteMeta(fullName) + "$", "$options": "i"},
	})
}

func (r *mongoBookingRepository) FindBookedConflict(ctx context.Context, date, role, excludeID string) (*model.Booking, error) {
	return r.findOneBooked(ctx, bson.M{
		"date": date,
		"role": role,
		"_id":  bson.M{"$ne": excludeID},
	})
}

// findOneBooked returns nil, nil when no Booked record matches.
func (r *mongoBookingRepository) findOneBooked(ctx context.Context, filter bson.M) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter["status"] = model.StatusBooked

	var booking model.Booking
	err := r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) FindBookedInRange(ctx context.Context, startDate, endDate string) ([]*model.Booking, error) {
	return r.findBooked(ctx, bson.M{
		"date": bson.M{"$gte": startDate, "$lte": endDate},
	})
}

func (r *mongoBookingRepository) FindBookedBetween(ctx context.Context, startInclusive, endExclusive string) ([]*model.Booking, error) {
	filter := bson.M{}
	if startInclusive != "" || endExclusive != "" {
		dateFilter := bson.M{}
		if startInclusive != "" {
			dateFilter["$gte"] = startInclusive
		}
		if endExclusive != "" {
			dateFilter["$lt"] = endExclusive
		}
		filter["date"] = dateFilter
	}
	return r.findBooked(ctx, filter)
}

func (r *mongoBookingRepository) FindForDay(ctx context.Context, date string) ([]*model.Booking, error) {
	return r.findBooked(ctx, bson.M{"date": date})
}

func (r *mongoBookingRepository) FindBookedByName(ctx context.Context, name string) ([]*model.Booking, error) {
	return r.findBooked(ctx, bson.M{
		"full_name": bson.M{"$regex": regexp.QuoteMeta(name), "$options": "i"},
	})
}

func (r *mongoBookingRepository) findBooked(ctx context.Context, filter bson.M) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter["status"] = model.StatusBooked

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) FindWithFilters(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Date != "" {
		query["date"] = filter.Date
	} else if filter.FromDate != "" || filter.ToDate != "" {
		rangeQuery := bson.M{}
		if filter.FromDate != "" {
			rangeQuery["$gte"] = filter.FromDate
		}
		if filter.ToDate != "" {
			rangeQuery["$lt"] = filter.ToDate
		}
		query["date"] = rangeQuery
	}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Name != "" {
		query["full_name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Name), "$options": "i"}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) Update(ctx context.Context, id string, set bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) RoleCounts(ctx context.Context, startInclusive, endExclusive string) (map[string]int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"date":   bson.M{"$gte": startInclusive, "$lt": endExclusive},
			"status": model.StatusBooked,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$role",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate role counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Role  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode role counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *mongoBookingRepository) ParticipantStats(ctx context.Context, startInclusive, endExclusive string) ([]model.ParticipantStat, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"date":   bson.M{"$gte": startInclusive, "$lt": endExclusive},
			"status": model.StatusBooked,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":            "$full_name",
			"total_bookings": bson.M{"$sum": 1},
			"prayer_count": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$role", model.RolePrayer}}, 1, 0},
			}},
			"worship_count": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$role", model.RoleWorship}}, 1, 0},
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"total_bookings": -1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate participant stats: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Name          string `bson:"_id"`
		TotalBookings int64  `bson:"total_bookings"`
		PrayerCount   int64  `bson:"prayer_count"`
		WorshipCount  int64  `bson:"worship_count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode participant stats: %w", err)
	}

	stats := make([]model.ParticipantStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, model.ParticipantStat{
			Name:          row.Name,
			TotalBookings: row.TotalBookings,
			PrayerCount:   row.PrayerCount,
			WorshipCount:  row.WorshipCount,
		})
	}
	return stats, nil
}

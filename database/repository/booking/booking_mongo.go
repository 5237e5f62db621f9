package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fixly/database"
	"fixly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	return &MongoBookingRepo{coll: database.Collection("bookings")}
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoBookingRepo) Create(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByBookingID(bookingID string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) ListByUser(userID string) ([]models.Booking, error) {
	return r.list(bson.M{"userId": userID}, 0)
}

func (r *MongoBookingRepo) ListByProvider(providerID string) ([]models.Booking, error) {
	return r.list(bson.M{"providerId": providerID}, 0)
}

func (r *MongoBookingRepo) ListRecent(limit int64) ([]models.Booking, error) {
	return r.list(bson.M{}, limit)
}

// list returns bookings newest-first.
func (r *MongoBookingRepo) list(filter bson.M, limit int64) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) CountAll() (int64, error) {
	return r.count(bson.M{})
}

func (r *MongoBookingRepo) CountByStatus(status string) (int64, error) {
	return r.count(bson.M{"status": status})
}

func (r *MongoBookingRepo) count(filter bson.M) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *MongoBookingRepo) UpdateStatusIf(bookingID string, allowedFrom []string, to string) (*models.Booking, error) {
	filter := bson.M{
		"bookingId": bookingID,
		"status":    bson.M{"$in": allowedFrom},
	}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}}
	return r.findOneAndUpdate(filter, update)
}

func (r *MongoBookingRepo) AppendMessage(bookingID string, msg models.Message) (*models.Booking, error) {
	filter := bson.M{"bookingId": bookingID}
	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(filter, update)
}

func (r *MongoBookingRepo) UpdateETA(bookingID string, etaMinutes int, etaAt time.Time) (*models.Booking, error) {
	filter := bson.M{"bookingId": bookingID}
	update := bson.M{"$set": bson.M{
		"etaMinutes": etaMinutes,
		"etaAt":      etaAt,
		"updatedAt":  time.Now().UTC(),
	}}
	return r.findOneAndUpdate(filter, update)
}

func (r *MongoBookingRepo) SetPaymentIfUnpaid(bookingID, method, txnID string, paidAt time.Time) (*models.Booking, error) {
	filter := bson.M{
		"bookingId":     bookingID,
		"paymentStatus": bson.M{"$ne": models.PaymentPaid},
	}
	update := bson.M{"$set": bson.M{
		"paymentMethod": method,
		"paymentStatus": models.PaymentPaid,
		"paymentTxnId":  txnID,
		"paidAt":        paidAt,
		"updatedAt":     time.Now().UTC(),
	}}
	return r.findOneAndUpdate(filter, update)
}

func (r *MongoBookingRepo) SetRating(bookingID string, rating int, review string) (*models.Booking, error) {
	filter := bson.M{"bookingId": bookingID}
	update := bson.M{"$set": bson.M{
		"rating":    rating,
		"review":    review,
		"updatedAt": time.Now().UTC(),
	}}
	return r.findOneAndUpdate(filter, update)
}

func (r *MongoBookingRepo) findOneAndUpdate(filter, update bson.M) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return &booking, nil
}

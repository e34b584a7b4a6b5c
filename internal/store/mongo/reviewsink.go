// Package mongo provides an optional human-review capture sink for the
// cmd/api HTTP surface. Review/feedback capture is outside the parsing
// core's concern, so nothing in internal/pipeline depends on this
// package; adapted from app/models/address_review.go and
// app/services/mongo_cache_service.go.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vnaddress/parser/internal/model"
)

const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Review is a low-confidence parse flagged for human correction.
type Review struct {
	RawAddress string             `bson:"raw_address"`
	Normalized string             `bson:"normalized"`
	Best       model.FormattedOutput `bson:"best"`
	Candidates []model.Candidate  `bson:"candidates"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"created_at"`
}

// ReviewSink persists low-confidence ParseResults to MongoDB so a human
// reviewer can correct them later. Its failures never block a parse
// response — callers should log and continue.
type ReviewSink struct {
	collection *mongo.Collection
}

// NewReviewSink opens the address_reviews collection on db, creating the
// indexes a reviewer queue needs.
func NewReviewSink(db *mongo.Database) (*ReviewSink, error) {
	collection := db.Collection("address_reviews")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}, options.CreateIndexes())
	if err != nil {
		return nil, err
	}
	return &ReviewSink{collection: collection}, nil
}

// Flag inserts a review record for a parse whose quality flag warrants
// human attention (typically partial_address or failed).
func (s *ReviewSink) Flag(ctx context.Context, raw, normalized string, result model.ParseResult) error {
	review := Review{
		RawAddress: raw,
		Normalized: normalized,
		Best:       result.Best,
		Candidates: result.Candidates,
		Status:     ReviewStatusPending,
		CreatedAt:  time.Now(),
	}
	_, err := s.collection.InsertOne(ctx, review)
	return err
}

// Pending returns up to limit pending reviews, oldest first.
func (s *ReviewSink) Pending(ctx context.Context, limit int64) ([]Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(limit)
	cur, err := s.collection.Find(ctx, bson.M{"status": ReviewStatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Review
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// internal/app/store/contributions/contributionstore.go
package contributionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kapatiranph/portal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBadAmount is returned for a non-positive contribution amount.
var ErrBadAmount = errors.New("contribution amount must be positive")

// Store manages the append-only contribution ledger. There are no update or
// delete operations: corrections are recorded as new entries.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contributions")}
}

// EnsureIndexes creates the member and date indexes the aggregations use.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_contributions_member"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_contributions_date"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Append records a contribution against a member.
func (s *Store) Append(ctx context.Context, memberID primitive.ObjectID, amount int64) (models.Contribution, error) {
	if amount <= 0 {
		return models.Contribution{}, ErrBadAmount
	}
	entry := models.Contribution{
		ID:        primitive.NewObjectID(),
		MemberID:  memberID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, entry); err != nil {
		return models.Contribution{}, fmt.Errorf("insert contribution: %w", err)
	}
	return entry, nil
}

// ListForMember returns a member's entries, newest first.
func (s *Store) ListForMember(ctx context.Context, memberID primitive.ObjectID) ([]models.Contribution, error) {
	cur, err := s.c.Find(ctx, bson.M{"member_id": memberID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Contribution
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TotalForMember sums all of a member's contributions.
func (s *Store) TotalForMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"member_id": memberID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var row struct {
			Total int64 `bson:"total"`
		}
		if err := cur.Decode(&row); err != nil {
			return 0, err
		}
		return row.Total, nil
	}
	return 0, cur.Err()
}

// QuarterlyTotals aggregates one year's contributions into totals keyed by
// quarter label (Q1..Q4). Quarters with no entries are absent from the map;
// charts.ToQuarterlySeries zero-fills them.
func (s *Store) QuarterlyTotals(ctx context.Context, year int) (map[string]int64, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": start, "$lt": end}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$ceil": bson.M{"$divide": bson.A{bson.M{"$month": "$created_at"}, 3}}},
			"total": bson.M{"$sum": "$amount"},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	totals := make(map[string]int64, 4)
	for cur.Next(ctx) {
		var row struct {
			Quarter int32 `bson:"_id"`
			Total   int64 `bson:"total"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		if row.Quarter >= 1 && row.Quarter <= 4 {
			totals[fmt.Sprintf("Q%d", row.Quarter)] = row.Total
		}
	}
	return totals, cur.Err()
}

// AnnualTotal sums one year's contributions across all members.
func (s *Store) AnnualTotal(ctx context.Context, year int) (int64, error) {
	totals, err := s.QuarterlyTotals(ctx, year)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, v := range totals {
		sum += v
	}
	return sum, nil
}

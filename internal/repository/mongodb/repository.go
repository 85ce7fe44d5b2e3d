package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SameetPathan/cowfarm/internal/domain/models"
)

// Repository defines the archive storage for generated reports. Everything
// in here is derived data, rebuildable from the document store at any time.
type Repository interface {
	SaveSummarySnapshot(ctx context.Context, snapshot SummarySnapshot) error
	SaveIncomeRollup(ctx context.Context, rollup IncomeRollupDoc) error
	LatestIncomeRollup(ctx context.Context, owner, month string) (*IncomeRollupDoc, error)
}

// SummarySnapshot is one archived dashboard summary for an owner.
type SummarySnapshot struct {
	Owner       string         `bson:"owner" json:"owner"`
	GeneratedAt time.Time      `bson:"generated_at" json:"generated_at"`
	Summary     models.Summary `bson:"summary" json:"summary"`
}

// IncomeRollupDoc is one archived month-to-date income rollup for an owner.
type IncomeRollupDoc struct {
	Owner       string              `bson:"owner" json:"owner"`
	Month       string              `bson:"month" json:"month"`
	GeneratedAt time.Time           `bson:"generated_at" json:"generated_at"`
	Rollup      models.IncomeRollup `bson:"rollup" json:"rollup"`
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client      *mongo.Client
	dbName      string
	summaryColl string
	rollupColl  string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:      client,
		dbName:      dbName,
		summaryColl: "summary_snapshots",
		rollupColl:  "income_rollups",
	}, nil
}

// SaveSummarySnapshot archives one generated dashboard summary.
func (r *MongoDBRepository) SaveSummarySnapshot(ctx context.Context, snapshot SummarySnapshot) error {
	collection := r.client.Database(r.dbName).Collection(r.summaryColl)
	if _, err := collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert summary snapshot: %w", err)
	}
	return nil
}

// SaveIncomeRollup archives one generated monthly income rollup.
func (r *MongoDBRepository) SaveIncomeRollup(ctx context.Context, rollup IncomeRollupDoc) error {
	collection := r.client.Database(r.dbName).Collection(r.rollupColl)
	if _, err := collection.InsertOne(ctx, rollup); err != nil {
		return fmt.Errorf("failed to insert income rollup: %w", err)
	}
	return nil
}

// LatestIncomeRollup returns the most recently generated rollup for an
// owner and month, or nil when none has been archived yet.
func (r *MongoDBRepository) LatestIncomeRollup(ctx context.Context, owner, month string) (*IncomeRollupDoc, error) {
	collection := r.client.Database(r.dbName).Collection(r.rollupColl)

	opts := options.FindOne().SetSort(bson.D{{Key: "generated_at", Value: -1}})
	var doc IncomeRollupDoc
	err := collection.FindOne(ctx, bson.M{"owner": owner, "month": month}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load income rollup: %w", err)
	}
	return &doc, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

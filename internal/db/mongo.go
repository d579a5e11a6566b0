package db

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"surveyreport/internal/config"
	"surveyreport/internal/report"
)

// MongoStore writes one document per report into a single collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *zap.Logger
}

// ConnectMongo connects and pings the primary so that an unreachable
// server is detected at startup rather than on the first insert.
func ConnectMongo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(strings.TrimSpace(cfg.DatabaseURL)).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", cfg.DatabaseName),
		zap.String("collection", cfg.Collection))

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.DatabaseName).Collection(cfg.Collection),
		logger:     logger,
	}, nil
}

func (s *MongoStore) Backend() string { return BackendMongo }

// InsertReport inserts rec and returns the generated ObjectID as hex.
func (s *MongoStore) InsertReport(ctx context.Context, rec *report.Record) (string, error) {
	res, err := s.collection.InsertOne(ctx, rec)
	if err != nil {
		return "", err
	}
	return insertedIDString(res.InsertedID), nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return err
	}
	s.logger.Info("disconnected from MongoDB")
	return nil
}

func insertedIDString(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}

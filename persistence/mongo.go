// persistence/mongo.go
package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/cratequest/gameserver/config"
	"github.com/cratequest/gameserver/logger"
	"github.com/cratequest/gameserver/models"
)

// MongoStore 基于 MongoDB 的存储实现
type MongoStore struct {
	client      *mongo.Client
	questions   *mongo.Collection
	leaderboard *mongo.Collection
}

// NewMongoStore connects, pings the primary and binds the two game
// collections.
func NewMongoStore(cfg config.MongoConfig) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		if disconnectErr := client.Disconnect(context.Background()); disconnectErr != nil {
			logger.Log.Warnf("Failed to disconnect MongoDB client after ping failure: %v", disconnectErr)
		}
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	return &MongoStore{
		client:      client,
		questions:   db.Collection(cfg.QuestionsCollection),
		leaderboard: db.Collection(cfg.LeaderboardCollection),
	}, nil
}

func (s *MongoStore) GetRanked(ctx context.Context) ([]models.LeaderboardEntry, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "crates", Value: -1},
		{Key: "timeTaken", Value: 1},
	})
	cursor, err := s.leaderboard.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []models.LeaderboardEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard entries: %w", err)
	}
	return entries, nil
}

// EnsureTeam upserts with $setOnInsert so the first write wins and a
// later registration never clobbers an existing score.
func (s *MongoStore) EnsureTeam(ctx context.Context, teamName string) (*models.LeaderboardEntry, bool, error) {
	filter := bson.M{"teamName": teamName}
	update := bson.M{
		"$setOnInsert": bson.M{
			"teamName":  teamName,
			"timeTaken": 0,
			"crates":    0,
		},
	}
	opts := options.Update().SetUpsert(true)

	res, err := s.leaderboard.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure team %s: %w", teamName, err)
	}
	existed := res.UpsertedID == nil

	var entry models.LeaderboardEntry
	if err := s.leaderboard.FindOne(ctx, filter).Decode(&entry); err != nil {
		return nil, false, fmt.Errorf("failed to read back team %s: %w", teamName, err)
	}
	return &entry, existed, nil
}

func (s *MongoStore) UpdateScore(ctx context.Context, teamName string, timeTaken, crates int) error {
	filter := bson.M{"teamName": teamName}
	update := bson.M{
		"$set": bson.M{
			"timeTaken": timeTaken,
			"crates":    crates,
		},
	}
	res, err := s.leaderboard.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update score for team %s: %w", teamName, err)
	}
	if res.MatchedCount == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (s *MongoStore) Questions(ctx context.Context) ([]models.Question, error) {
	opts := options.Find().SetProjection(bson.M{
		"_id":      0,
		"id":       1,
		"question": 1,
	})
	cursor, err := s.questions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questions: %w", err)
	}
	defer cursor.Close(ctx)

	questions := []models.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}

func (s *MongoStore) Answer(ctx context.Context, questionID int) (string, error) {
	var question models.Question
	err := s.questions.FindOne(ctx, bson.M{"id": questionID}).Decode(&question)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrQuestionNotFound
		}
		return "", fmt.Errorf("failed to fetch question %d: %w", questionID, err)
	}
	return question.Answer, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	logger.Log.Info("Disconnecting from MongoDB...")
	return s.client.Disconnect(ctx)
}

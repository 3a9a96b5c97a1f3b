package memberRepo

import (
	"context"
	"fmt"
	"time"

	"cineride/database"
	"cineride/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MemberRepository defines methods for member profile access.
type MemberRepository interface {
	// GetByID retrieves a member by its unique ID.
	GetByID(id string) (*models.Member, error)
}

// MongoMemberRepo implements MemberRepository using MongoDB.
type MongoMemberRepo struct {
	coll *mongo.Collection
}

// NewMongoMemberRepo creates a new instance of MemberRepository using MongoDB.
func NewMongoMemberRepo() MemberRepository {
	coll := database.MongoClient.Database("cineride").Collection("members")
	repo := &MongoMemberRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoMemberRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a member by its unique ID.
func (r *MongoMemberRepo) GetByID(id string) (*models.Member, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var member models.Member
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&member); err != nil {
		return nil, fmt.Errorf("failed to fetch member with id %s: %w", id, err)
	}
	return &member, nil
}

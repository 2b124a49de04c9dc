package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned when an insert violates a unique index
var ErrDuplicate = errors.New("duplicate document")

const (
	usersCollection          = "users"
	entriesCollection        = "diary_entries"
	friendRequestsCollection = "friend_requests"
	friendshipsCollection    = "friendships"
	assessmentsCollection    = "assessments"
)

// EnsureIndexes creates the indexes the repositories rely on for lookups and
// uniqueness. It is safe to run on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "publicId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		entriesCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "day", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "shared", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		friendRequestsCollection: {
			{Keys: bson.D{{Key: "toUserId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "fromUserId", Value: 1}, {Key: "status", Value: 1}}},
		},
		friendshipsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "friendId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		assessmentsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "day", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "submittedAt", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func insertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moodiary/internal/model"
)

// DiaryRepo handles MongoDB operations for diary entries
type DiaryRepo interface {
	Create(ctx context.Context, entry *model.DiaryEntry) error
	GetByID(ctx context.Context, id string) (*model.DiaryEntry, error)
	Update(ctx context.Context, entry *model.DiaryEntry) error
	Delete(ctx context.Context, id string) error
	// ListByUserDays returns a user's entries with fromDay <= day < toDay, newest day first.
	ListByUserDays(ctx context.Context, userID, fromDay, toDay string) ([]*model.DiaryEntry, error)
	// ListShared returns shared entries of the given users created before the cursor.
	ListShared(ctx context.Context, userIDs []string, before time.Time, limit int) ([]*model.DiaryEntry, error)
}

type diaryRepo struct {
	collection *mongo.Collection
}

// NewDiaryRepo creates a new diary repository
func NewDiaryRepo(db *mongo.Database) DiaryRepo {
	return &diaryRepo{
		collection: db.Collection(entriesCollection),
	}
}

func (r *diaryRepo) Create(ctx context.Context, entry *model.DiaryEntry) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return insertErr(err)
}

func (r *diaryRepo) GetByID(ctx context.Context, id string) (*model.DiaryEntry, error) {
	var entry model.DiaryEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *diaryRepo) Update(ctx context.Context, entry *model.DiaryEntry) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry)
	return err
}

func (r *diaryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *diaryRepo) ListByUserDays(ctx context.Context, userID, fromDay, toDay string) ([]*model.DiaryEntry, error) {
	filter := bson.M{
		"userId": userID,
		"day":    bson.M{"$gte": fromDay, "$lt": toDay},
	}
	opts := options.Find().SetSort(bson.D{{Key: "day", Value: -1}, {Key: "createdAt", Value: -1}})
	return r.find(ctx, filter, opts)
}

func (r *diaryRepo) ListShared(ctx context.Context, userIDs []string, before time.Time, limit int) ([]*model.DiaryEntry, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"userId":    bson.M{"$in": userIDs},
		"shared":    true,
		"createdAt": bson.M{"$lt": before},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

func (r *diaryRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.DiaryEntry, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.DiaryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

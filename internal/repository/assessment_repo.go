package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moodiary/internal/model"
)

// AssessmentRepo stores scored questionnaire submissions
type AssessmentRepo interface {
	// Create returns ErrDuplicate when the user already has a record for the day.
	Create(ctx context.Context, a *model.Assessment) error
	GetByID(ctx context.Context, id string) (*model.Assessment, error)
	GetByUserDay(ctx context.Context, userID, day string) (*model.Assessment, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Assessment, error)
}

type assessmentRepo struct {
	collection *mongo.Collection
}

// NewAssessmentRepo creates a new assessment repository
func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		collection: db.Collection(assessmentsCollection),
	}
}

func (r *assessmentRepo) Create(ctx context.Context, a *model.Assessment) error {
	_, err := r.collection.InsertOne(ctx, a)
	return insertErr(err)
}

func (r *assessmentRepo) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *assessmentRepo) GetByUserDay(ctx context.Context, userID, day string) (*model.Assessment, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "day": day})
}

func (r *assessmentRepo) findOne(ctx context.Context, filter bson.M) (*model.Assessment, error) {
	var a model.Assessment
	err := r.collection.FindOne(ctx, filter).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Assessment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var list []*model.Assessment
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

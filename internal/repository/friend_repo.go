package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moodiary/internal/model"
)

// FriendRepo handles friend requests and approved friendships
type FriendRepo interface {
	CreateRequest(ctx context.Context, req *model.FriendRequest) error
	GetRequest(ctx context.Context, id string) (*model.FriendRequest, error)
	FindPending(ctx context.Context, fromUserID, toUserID string) (*model.FriendRequest, error)
	ListPending(ctx context.Context, userID string, incoming bool) ([]*model.FriendRequest, error)
	UpdateRequest(ctx context.Context, req *model.FriendRequest) error

	// AddFriendship stores both directions of the friendship.
	AddFriendship(ctx context.Context, userID, friendID string) error
	// RemoveFriendship deletes both directions and reports whether any existed.
	RemoveFriendship(ctx context.Context, userID, friendID string) (bool, error)
	AreFriends(ctx context.Context, userID, friendID string) (bool, error)
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
}

type friendRepo struct {
	requests    *mongo.Collection
	friendships *mongo.Collection
}

// NewFriendRepo creates a new friend repository
func NewFriendRepo(db *mongo.Database) FriendRepo {
	return &friendRepo{
		requests:    db.Collection(friendRequestsCollection),
		friendships: db.Collection(friendshipsCollection),
	}
}

func (r *friendRepo) CreateRequest(ctx context.Context, req *model.FriendRequest) error {
	_, err := r.requests.InsertOne(ctx, req)
	return insertErr(err)
}

func (r *friendRepo) GetRequest(ctx context.Context, id string) (*model.FriendRequest, error) {
	return r.findRequest(ctx, bson.M{"_id": id})
}

func (r *friendRepo) FindPending(ctx context.Context, fromUserID, toUserID string) (*model.FriendRequest, error) {
	return r.findRequest(ctx, bson.M{
		"fromUserId": fromUserID,
		"toUserId":   toUserID,
		"status":     model.FriendRequestPending,
	})
}

func (r *friendRepo) findRequest(ctx context.Context, filter bson.M) (*model.FriendRequest, error) {
	var req model.FriendRequest
	err := r.requests.FindOne(ctx, filter).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *friendRepo) ListPending(ctx context.Context, userID string, incoming bool) ([]*model.FriendRequest, error) {
	field := "fromUserId"
	if incoming {
		field = "toUserId"
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.requests.Find(ctx, bson.M{field: userID, "status": model.FriendRequestPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reqs []*model.FriendRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *friendRepo) UpdateRequest(ctx context.Context, req *model.FriendRequest) error {
	_, err := r.requests.ReplaceOne(ctx, bson.M{"_id": req.ID}, req)
	return err
}

func (r *friendRepo) AddFriendship(ctx context.Context, userID, friendID string) error {
	now := time.Now()
	for _, pair := range [][2]string{{userID, friendID}, {friendID, userID}} {
		filter := bson.M{"userId": pair[0], "friendId": pair[1]}
		update := bson.M{"$setOnInsert": bson.M{"createdAt": now}}
		if _, err := r.friendships.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return err
		}
	}
	return nil
}

func (r *friendRepo) RemoveFriendship(ctx context.Context, userID, friendID string) (bool, error) {
	res, err := r.friendships.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"userId": userID, "friendId": friendID},
		bson.M{"userId": friendID, "friendId": userID},
	}})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *friendRepo) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	n, err := r.friendships.CountDocuments(ctx, bson.M{"userId": userID, "friendId": friendID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *friendRepo) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	cursor, err := r.friendships.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var friendships []model.Friendship
	if err := cursor.All(ctx, &friendships); err != nil {
		return nil, err
	}
	ids := make([]string, len(friendships))
	for i, f := range friendships {
		ids[i] = f.FriendID
	}
	return ids, nil
}

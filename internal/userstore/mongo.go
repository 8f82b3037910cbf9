package userstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trstyle/storefront-services/internal/models"
)

// MongoStore writes user records to a MongoDB "users" collection. The same
// implementation serves both paths: the privileged store is constructed from
// the admin connection (bypasses per-record rules), the direct store from the
// end-user connection where the server enforces access rules.
type MongoStore struct {
	col  *mongo.Collection
	name string
}

// NewMongoStore wraps col as a named store strategy. A nil collection is
// allowed and makes every operation report Unavailable without a remote
// call, which is how a missing admin connection string surfaces.
func NewMongoStore(col *mongo.Collection, name string) *MongoStore {
	return &MongoStore{col: col, name: name}
}

func (s *MongoStore) Name() string { return s.name }

func (s *MongoStore) Set(ctx context.Context, key string, p Profile) error {
	if s.col == nil {
		return E(KindUnavailable, s.name, "store not configured", nil)
	}
	if key == "" {
		return E(KindInvalidArgument, s.name, "key is required", nil)
	}

	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	if p.Provider != "" {
		set["provider"] = p.Provider
	}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"key": key, "createdAt": now},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.col.UpdateOne(ctx, bson.M{"key": key}, update, opts); err != nil {
		return s.classify("set failed", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, key string) (*models.UserRecord, error) {
	if s.col == nil {
		return nil, E(KindUnavailable, s.name, "store not configured", nil)
	}
	if key == "" {
		return nil, E(KindInvalidArgument, s.name, "key is required", nil)
	}
	var rec models.UserRecord
	if err := s.col.FindOne(ctx, bson.M{"key": key}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, s.classify("get failed", err)
	}
	return &rec, nil
}

// classify maps driver errors onto the store error taxonomy. Server-side
// authorization rejections (code 13) become PermissionDenied so the caller
// can log the "update access rules" diagnostic; everything else is treated
// as a transport failure.
func (s *MongoStore) classify(msg string, err error) error {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 13 {
		return E(KindPermissionDenied, s.name, "write rejected by access rules", err)
	}
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == 13 {
				return E(KindPermissionDenied, s.name, "write rejected by access rules", err)
			}
		}
	}
	return E(KindTransport, s.name, msg, err)
}

// Package storage wraps the MongoDB driver behind a small Collection
// capability that data-access code receives at construction, so tests can
// substitute a double without a running database.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoDocuments is returned by FindOne when nothing matches the filter.
var ErrNoDocuments = errors.New("no documents in result")

// FindOptions carries the optional query modifiers supported by Find.
// Zero values mean "not set".
type FindOptions struct {
	Projection bson.D
	Sort       bson.D
	Skip       int64
	Limit      int64
}

// UpdateResult reports how many documents an update touched.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// Collection is the contract the document store must satisfy, one method per
// persistence primitive the repositories use.
type Collection interface {
	InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error)
	InsertMany(ctx context.Context, docs []any) ([]primitive.ObjectID, error)
	FindOne(ctx context.Context, filter any, out any) error
	Find(ctx context.Context, filter any, opts FindOptions, out any) error
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error
	UpdateOne(ctx context.Context, filter any, update any) (UpdateResult, error)
	UpdateMany(ctx context.Context, filter any, update any) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter any) (int64, error)
	DeleteMany(ctx context.Context, filter any) (int64, error)
}

// Connect establishes and verifies a client connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// NewCollection returns a Collection backed by the named Mongo collection.
func NewCollection(db *mongo.Database, name string) Collection {
	return &mongoCollection{col: db.Collection(name)}
}

type mongoCollection struct {
	col *mongo.Collection
}

var _ Collection = (*mongoCollection)(nil)

func (m *mongoCollection) InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error) {
	res, err := m.col.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (m *mongoCollection) InsertMany(ctx context.Context, docs []any) ([]primitive.ObjectID, error) {
	res, err := m.col.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(res.InsertedIDs))
	for _, raw := range res.InsertedIDs {
		id, ok := raw.(primitive.ObjectID)
		if !ok {
			return nil, fmt.Errorf("unexpected inserted id type %T", raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *mongoCollection) FindOne(ctx context.Context, filter any, out any) error {
	err := m.col.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoDocuments
	}
	return err
}

func (m *mongoCollection) Find(ctx context.Context, filter any, opts FindOptions, out any) error {
	findOpts := options.Find()
	if opts.Projection != nil {
		findOpts.SetProjection(opts.Projection)
	}
	if opts.Sort != nil {
		findOpts.SetSort(opts.Sort)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := m.col.Find(ctx, filter, findOpts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (m *mongoCollection) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cursor, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (m *mongoCollection) UpdateOne(ctx context.Context, filter any, update any) (UpdateResult, error) {
	res, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (m *mongoCollection) UpdateMany(ctx context.Context, filter any, update any) (UpdateResult, error) {
	res, err := m.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (m *mongoCollection) DeleteOne(ctx context.Context, filter any) (int64, error) {
	res, err := m.col.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *mongoCollection) DeleteMany(ctx context.Context, filter any) (int64, error) {
	res, err := m.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

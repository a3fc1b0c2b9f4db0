// Package storagetest provides an in-memory test double for the storage
// Collection interface. Every call is recorded so tests can assert on the
// filters, projections and pipelines the data-access layer constructs.
package storagetest

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/weatherdex/weather-station-api/internal/storage"
)

// Call records one invocation of a Collection method.
type Call struct {
	Method   string
	Filter   any
	Update   any
	Doc      any
	Docs     []any
	Opts     storage.FindOptions
	Pipeline mongo.Pipeline
}

// FakeCollection implements storage.Collection. Behaviour is programmed per
// method through the Fn fields; unset methods return zero values, with
// FindOne defaulting to storage.ErrNoDocuments.
type FakeCollection struct {
	Calls []Call

	InsertOneFn  func(ctx context.Context, doc any) (primitive.ObjectID, error)
	InsertManyFn func(ctx context.Context, docs []any) ([]primitive.ObjectID, error)
	FindOneFn    func(ctx context.Context, filter any, out any) error
	FindFn       func(ctx context.Context, filter any, opts storage.FindOptions, out any) error
	AggregateFn  func(ctx context.Context, pipeline mongo.Pipeline, out any) error
	UpdateOneFn  func(ctx context.Context, filter any, update any) (storage.UpdateResult, error)
	UpdateManyFn func(ctx context.Context, filter any, update any) (storage.UpdateResult, error)
	DeleteOneFn  func(ctx context.Context, filter any) (int64, error)
	DeleteManyFn func(ctx context.Context, filter any) (int64, error)
}

var _ storage.Collection = (*FakeCollection)(nil)

// CallsTo returns the recorded calls for one method.
func (f *FakeCollection) CallsTo(method string) []Call {
	var calls []Call
	for _, c := range f.Calls {
		if c.Method == method {
			calls = append(calls, c)
		}
	}
	return calls
}

func (f *FakeCollection) InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error) {
	f.Calls = append(f.Calls, Call{Method: "InsertOne", Doc: doc})
	if f.InsertOneFn != nil {
		return f.InsertOneFn(ctx, doc)
	}
	return primitive.NewObjectID(), nil
}

func (f *FakeCollection) InsertMany(ctx context.Context, docs []any) ([]primitive.ObjectID, error) {
	f.Calls = append(f.Calls, Call{Method: "InsertMany", Docs: docs})
	if f.InsertManyFn != nil {
		return f.InsertManyFn(ctx, docs)
	}
	ids := make([]primitive.ObjectID, len(docs))
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}
	return ids, nil
}

func (f *FakeCollection) FindOne(ctx context.Context, filter any, out any) error {
	f.Calls = append(f.Calls, Call{Method: "FindOne", Filter: filter})
	if f.FindOneFn != nil {
		return f.FindOneFn(ctx, filter, out)
	}
	return storage.ErrNoDocuments
}

func (f *FakeCollection) Find(ctx context.Context, filter any, opts storage.FindOptions, out any) error {
	f.Calls = append(f.Calls, Call{Method: "Find", Filter: filter, Opts: opts})
	if f.FindFn != nil {
		return f.FindFn(ctx, filter, opts, out)
	}
	return nil
}

func (f *FakeCollection) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	f.Calls = append(f.Calls, Call{Method: "Aggregate", Pipeline: pipeline})
	if f.AggregateFn != nil {
		return f.AggregateFn(ctx, pipeline, out)
	}
	return nil
}

func (f *FakeCollection) UpdateOne(ctx context.Context, filter any, update any) (storage.UpdateResult, error) {
	f.Calls = append(f.Calls, Call{Method: "UpdateOne", Filter: filter, Update: update})
	if f.UpdateOneFn != nil {
		return f.UpdateOneFn(ctx, filter, update)
	}
	return storage.UpdateResult{}, nil
}

func (f *FakeCollection) UpdateMany(ctx context.Context, filter any, update any) (storage.UpdateResult, error) {
	f.Calls = append(f.Calls, Call{Method: "UpdateMany", Filter: filter, Update: update})
	if f.UpdateManyFn != nil {
		return f.UpdateManyFn(ctx, filter, update)
	}
	return storage.UpdateResult{}, nil
}

func (f *FakeCollection) DeleteOne(ctx context.Context, filter any) (int64, error) {
	f.Calls = append(f.Calls, Call{Method: "DeleteOne", Filter: filter})
	if f.DeleteOneFn != nil {
		return f.DeleteOneFn(ctx, filter)
	}
	return 0, nil
}

func (f *FakeCollection) DeleteMany(ctx context.Context, filter any) (int64, error) {
	f.Calls = append(f.Calls, Call{Method: "DeleteMany", Filter: filter})
	if f.DeleteManyFn != nil {
		return f.DeleteManyFn(ctx, filter)
	}
	return 0, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/qolzam/bookstore/internal/database/interfaces"
	"go.mongodb.org/mongo-driver/bson"
)

// recordedCall captures the arguments of one repository call
type recordedCall struct {
	Method   string
	Filter   interface{}
	Data     interface{}
	Options  *interfaces.FindOptions
	Pipeline interface{}
	Keys     interface{}
}

// fakeRepository is an in-memory interfaces.Repository returning canned responses
type fakeRepository struct {
	calls []recordedCall

	findResults      [][]interface{}
	aggregateResults [][]interface{}
	updateResult     interfaces.UpdateResult
	deleteResult     interfaces.DeleteResult
	explainResult    interfaces.ExplainResult

	failOn   map[string]error
	closeErr error
	closed   int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{failOn: map[string]error{}}
}

func (f *fakeRepository) record(call recordedCall) error {
	f.calls = append(f.calls, call)
	return f.failOn[call.Method]
}

func (f *fakeRepository) methods() []string {
	names := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		names = append(names, c.Method)
	}
	return names
}

func (f *fakeRepository) SaveMany(ctx context.Context, collectionName string, data []interface{}) <-chan interfaces.RepositoryResult {
	result := make(chan interfaces.RepositoryResult, 1)
	err := f.record(recordedCall{Method: "SaveMany", Data: data})
	result <- interfaces.RepositoryResult{Result: make([]interface{}, len(data)), Error: err}
	close(result)
	return result
}

func (f *fakeRepository) Find(ctx context.Context, collectionName string, filter interface{}, opts *interfaces.FindOptions) <-chan interfaces.QueryResult {
	result := make(chan interfaces.QueryResult, 1)
	err := f.record(recordedCall{Method: "Find", Filter: filter, Options: opts})
	var docs []interface{}
	if len(f.findResults) > 0 {
		docs, f.findResults = f.findResults[0], f.findResults[1:]
	}
	result <- &fakeQueryResult{docs: docs, err: err}
	close(result)
	return result
}

func (f *fakeRepository) FindOne(ctx context.Context, collectionName string, filter interface{}) <-chan interfaces.SingleResult {
	result := make(chan interfaces.SingleResult, 1)
	_ = f.record(recordedCall{Method: "FindOne", Filter: filter})
	result <- nil
	close(result)
	return result
}

func (f *fakeRepository) Update(ctx context.Context, collectionName string, filter interface{}, data interface{}) <-chan interfaces.UpdateResult {
	result := make(chan interfaces.UpdateResult, 1)
	res := f.updateResult
	if err := f.record(recordedCall{Method: "Update", Filter: filter, Data: data}); err != nil {
		res = interfaces.UpdateResult{Error: err}
	}
	result <- res
	close(result)
	return result
}

func (f *fakeRepository) Delete(ctx context.Context, collectionName string, filter interface{}) <-chan interfaces.DeleteResult {
	result := make(chan interfaces.DeleteResult, 1)
	res := f.deleteResult
	if err := f.record(recordedCall{Method: "Delete", Filter: filter}); err != nil {
		res = interfaces.DeleteResult{Error: err}
	}
	result <- res
	close(result)
	return result
}

func (f *fakeRepository) DeleteMany(ctx context.Context, collectionName string, filter interface{}) <-chan interfaces.DeleteResult {
	result := make(chan interfaces.DeleteResult, 1)
	err := f.record(recordedCall{Method: "DeleteMany", Filter: filter})
	result <- interfaces.DeleteResult{Error: err}
	close(result)
	return result
}

func (f *fakeRepository) Count(ctx context.Context, collectionName string, filter interface{}) <-chan interfaces.CountResult {
	result := make(chan interfaces.CountResult, 1)
	err := f.record(recordedCall{Method: "Count", Filter: filter})
	result <- interfaces.CountResult{Error: err}
	close(result)
	return result
}

func (f *fakeRepository) Aggregate(ctx context.Context, collectionName string, pipeline interface{}) <-chan interfaces.QueryResult {
	result := make(chan interfaces.QueryResult, 1)
	err := f.record(recordedCall{Method: "Aggregate", Pipeline: pipeline})
	var docs []interface{}
	if len(f.aggregateResults) > 0 {
		docs, f.aggregateResults = f.aggregateResults[0], f.aggregateResults[1:]
	}
	result <- &fakeQueryResult{docs: docs, err: err}
	close(result)
	return result
}

// CreateIndex derives the index name the same way the server does: key_direction pairs joined by underscores.
func (f *fakeRepository) CreateIndex(ctx context.Context, collectionName string, keys interface{}) <-chan interfaces.IndexCreateResult {
	result := make(chan interfaces.IndexCreateResult, 1)
	if err := f.record(recordedCall{Method: "CreateIndex", Keys: keys}); err != nil {
		result <- interfaces.IndexCreateResult{Error: err}
		close(result)
		return result
	}
	name := ""
	for i, e := range keys.(bson.D) {
		if i > 0 {
			name += "_"
		}
		name += fmt.Sprintf("%s_%v", e.Key, e.Value)
	}
	result <- interfaces.IndexCreateResult{Name: name}
	close(result)
	return result
}

func (f *fakeRepository) ListIndexes(ctx context.Context, collectionName string) <-chan interfaces.IndexResult {
	result := make(chan interfaces.IndexResult, 1)
	err := f.record(recordedCall{Method: "ListIndexes"})
	result <- interfaces.IndexResult{Error: err}
	close(result)
	return result
}

func (f *fakeRepository) Explain(ctx context.Context, collectionName string, filter interface{}, verbosity string) <-chan interfaces.ExplainResult {
	result := make(chan interfaces.ExplainResult, 1)
	res := f.explainResult
	if err := f.record(recordedCall{Method: "Explain", Filter: filter, Data: verbosity}); err != nil {
		res = interfaces.ExplainResult{Error: err}
	}
	result <- res
	close(result)
	return result
}

func (f *fakeRepository) Close() error {
	f.closed++
	return f.closeErr
}

// fakeQueryResult decodes canned documents through BSON, like a driver cursor
type fakeQueryResult struct {
	docs []interface{}
	pos  int
	err  error
}

func (r *fakeQueryResult) Next() bool {
	if r.err != nil || r.pos >= len(r.docs) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeQueryResult) Decode(v interface{}) error {
	if r.pos == 0 {
		return errors.New("no current document")
	}
	raw, err := bson.Marshal(r.docs[r.pos-1])
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, v)
}

func (r *fakeQueryResult) All(v interface{}) error {
	if r.err != nil {
		return r.err
	}
	slice := reflect.ValueOf(v).Elem()
	slice.Set(slice.Slice(0, 0))
	for r.Next() {
		elem := reflect.New(slice.Type().Elem())
		if err := r.Decode(elem.Interface()); err != nil {
			return err
		}
		slice.Set(reflect.Append(slice, elem.Elem()))
	}
	return nil
}

func (r *fakeQueryResult) Close() {}

func (r *fakeQueryResult) Error() error {
	return r.err
}

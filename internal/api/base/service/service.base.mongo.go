// Package basesvc provides the generic MongoDB repository the domain services build on
package basesvc

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "expo_leads/internal/api/base/models"
	"expo_leads/internal/common"
	"expo_leads/internal/utility"
)

// UpdateData is a partial update
type UpdateData struct {
	Set   map[string]interface{} `bson:"$set,omitempty"`
	Unset map[string]interface{} `bson:"$unset,omitempty"`
}

// ToUpdateData accepts *UpdateData, UpdateData, a map or a struct; plain values are wrapped in $set
func ToUpdateData(data interface{}) (*UpdateData, error) {
	switch v := data.(type) {
	case *UpdateData:
		return v, nil
	case UpdateData:
		return &v, nil
	case bson.M:
		return &UpdateData{Set: v}, nil
	case map[string]interface{}:
		return &UpdateData{Set: v}, nil
	}

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return nil, err
	}
	return &UpdateData{Set: dataMap}, nil
}

// BaseServiceMongo lists the repository operations shared by every collection
type BaseServiceMongo[Model any] interface {
	InsertOne(ctx context.Context, data Model) (Model, error)
	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (Model, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]Model, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (Model, error)
	FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[Model], error)
	UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (Model, error)
	DeleteById(ctx context.Context, id primitive.ObjectID) error
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	Distinct(ctx context.Context, fieldName string, filter interface{}) ([]interface{}, error)
	Aggregate(ctx context.Context, pipeline interface{}, results interface{}) error
	DocumentExists(ctx context.Context, filter interface{}) (bool, error)
	UpsertOnInsert(ctx context.Context, filter interface{}, data Model) (bool, error)
}

// BaseServiceMongoImpl implements BaseServiceMongo over one collection
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection
}

// NewBaseServiceMongo creates a repository over collection
func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{
		collection: collection,
	}
}

// Collection returns the underlying collection
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

// InsertOne applies `default` tags, stamps createdAt/updatedAt and returns the stored document
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T

	applyInsertDefaultsToModel(&data)

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}

	now := time.Now()
	dataMap["createdAt"] = now
	dataMap["updatedAt"] = now

	result, err := s.collection.InsertOne(ctx, dataMap)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	var created T
	err = s.collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return created, nil
}

// FindOne returns the first document matching filter
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var zero T
	var result T

	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.FindOne()
	}

	if err := s.collection.FindOne(ctx, filter, opts).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		return zero, common.ConvertMongoError(err)
	}
	return result, nil
}

// Find returns every document matching filter, never nil
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var results []T
	if err = cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// FindOneById returns the document with the given _id
func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// FindWithPagination returns one page of documents plus the total count.
// page < 1 becomes 1 and limit <= 0 becomes 10.
func (s *BaseServiceMongoImpl[T]) FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[T], error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	opts.SetSkip((page - 1) * limit)
	opts.SetLimit(limit)

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	items, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	return &basemodels.PaginateResult[T]{
		Items:     items,
		Page:      page,
		Limit:     limit,
		ItemCount: int64(len(items)),
		Total:     total,
		TotalPage: basemodels.TotalPages(total, limit),
	}, nil
}

// UpdateById applies a partial update, stamps updatedAt and returns the updated document
func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (T, error) {
	var zero T

	updateData, err := ToUpdateData(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	if updateData.Set == nil {
		updateData.Set = make(map[string]interface{})
	}
	updateData.Set["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated T
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, updateData, opts).Decode(&updated)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return updated, nil
}

// DeleteById removes the document with the given _id
func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CountDocuments counts documents matching filter
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}

	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

// Distinct returns the distinct values of fieldName
func (s *BaseServiceMongoImpl[T]) Distinct(ctx context.Context, fieldName string, filter interface{}) ([]interface{}, error) {
	if filter == nil {
		filter = bson.D{}
	}

	values, err := s.collection.Distinct(ctx, fieldName, filter)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return values, nil
}

// Aggregate runs pipeline and decodes every result into results (a pointer to a slice)
func (s *BaseServiceMongoImpl[T]) Aggregate(ctx context.Context, pipeline interface{}, results interface{}) error {
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}

// DocumentExists reports whether at least one document matches filter
func (s *BaseServiceMongoImpl[T]) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, common.ConvertMongoError(err)
	}
	return count > 0, nil
}

// UpsertOnInsert inserts data only when nothing matches filter. inserted reports whether a document was created.
func (s *BaseServiceMongoImpl[T]) UpsertOnInsert(ctx context.Context, filter interface{}, data T) (bool, error) {
	applyInsertDefaultsToModel(&data)

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return false, common.ErrInvalidFormat
	}
	delete(dataMap, "_id")

	now := time.Now()
	dataMap["createdAt"] = now
	dataMap["updatedAt"] = now

	result, err := s.collection.UpdateOne(ctx, filter,
		bson.M{"$setOnInsert": dataMap},
		options.Update().SetUpsert(true))
	if err != nil {
		return false, common.ConvertMongoError(err)
	}
	return result.UpsertedCount > 0, nil
}

// applyInsertDefaultsToModel fills zero fields of *struct from their `default` tag
func applyInsertDefaultsToModel(ptr interface{}) {
	if ptr == nil {
		return
	}
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Ptr {
		return
	}
	struc := v.Elem()
	if struc.Kind() != reflect.Struct {
		return
	}

	rt := struc.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		defaultStr, ok := f.Tag.Lookup("default")
		if !ok {
			continue
		}
		fieldVal := struc.Field(i)
		if !fieldVal.CanSet() || !fieldVal.IsZero() {
			continue
		}
		val := parseDefaultValue(defaultStr, f.Type)
		if val == nil {
			continue
		}
		rv := reflect.ValueOf(val)
		if rv.Type().AssignableTo(fieldVal.Type()) {
			fieldVal.Set(rv)
		} else if rv.Type().ConvertibleTo(fieldVal.Type()) {
			fieldVal.Set(rv.Convert(fieldVal.Type()))
		}
	}
}

// parseDefaultValue converts a default tag to bool, int32, int64 or string by field kind
func parseDefaultValue(s string, t reflect.Type) interface{} {
	switch t.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false
		}
		return b
	case reflect.Int, reflect.Int32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return int32(0)
		}
		return int32(n)
	case reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return int64(0)
		}
		return n
	case reflect.String:
		return s
	default:
		return nil
	}
}

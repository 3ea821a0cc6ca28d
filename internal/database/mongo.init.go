package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"expo_leads/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCollections creates the named collections that do not exist yet
func EnsureCollections(ctx context.Context, db *mongo.Database, names ...string) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, name := range existing {
		known[name] = true
	}

	for _, name := range names {
		if name == "" || known[name] {
			continue
		}
		logger.WithCollection(name).Info("Collection does not exist, creating")
		if err := db.CreateCollection(ctx, name); err != nil && !isNamespaceExistsError(err) {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
		known[name] = true
	}

	logger.WithModule("database").Infof("Collections ensured in database: %s", db.Name())
	return nil
}

// indexSpec is one index derived from an `index` struct tag
type indexSpec struct {
	Name    string
	Keys    bson.D
	Options *options.IndexOptions
}

// parseOrder extracts the sort order (1 or -1) from a tag
func parseOrder(tag string) int {
	if strings.Contains(tag, "order:-1") {
		return -1
	}
	return 1
}

// parseIndexTag splits "a,b:c;d" into one map per ';' separated index config
func parseIndexTag(tag string) []map[string]string {
	result := []map[string]string{}
	for _, part := range strings.Split(tag, ";") {
		entry := map[string]string{}
		for _, sub := range strings.Split(part, ",") {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			kv := strings.SplitN(sub, ":", 2)
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else {
				entry[kv[0]] = ""
			}
		}
		result = append(result, entry)
	}
	return result
}

// bsonFieldName returns the bson key of a struct field, "" when it is not stored
func bsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("bson")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.TrimSpace(strings.Split(tag, ",")[0])
}

// buildIndexSpecs reads every `index` tag of model.
// Supported: single[,order:-1], unique[,sparse], text, ttl:<seconds>, compound:<group>[,order:-1].
func buildIndexSpecs(model interface{}) ([]indexSpec, error) {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	if modelType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("index model must be a struct, got %s", modelType.Kind())
	}

	specs := []indexSpec{}
	compoundKeys := map[string]bson.D{}
	compoundOrder := []string{}
	compoundSparse := map[string]bool{}

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		bsonField := bsonFieldName(field)
		if bsonField == "" {
			continue
		}

		for _, cfg := range parseIndexTag(tag) {
			if _, ok := cfg["text"]; ok {
				name := bsonField + "_text"
				specs = append(specs, indexSpec{
					Name:    name,
					Keys:    bson.D{{Key: bsonField, Value: "text"}},
					Options: options.Index().SetName(name),
				})
			}

			if _, ok := cfg["single"]; ok {
				name := bsonField + "_single"
				specs = append(specs, indexSpec{
					Name:    name,
					Keys:    bson.D{{Key: bsonField, Value: parseOrder(tag)}},
					Options: options.Index().SetName(name),
				})
			}

			if _, ok := cfg["unique"]; ok {
				name := bsonField + "_unique"
				opts := options.Index().SetName(name).SetUnique(true)
				if _, sparse := cfg["sparse"]; sparse {
					opts.SetSparse(true)
				}
				specs = append(specs, indexSpec{
					Name:    name,
					Keys:    bson.D{{Key: bsonField, Value: 1}},
					Options: opts,
				})
			}

			if ttlValue, ok := cfg["ttl"]; ok {
				ttl, err := strconv.Atoi(ttlValue)
				if err != nil {
					return nil, fmt.Errorf("invalid ttl on %s: %w", bsonField, err)
				}
				name := bsonField + "_ttl"
				specs = append(specs, indexSpec{
					Name:    name,
					Keys:    bson.D{{Key: bsonField, Value: 1}},
					Options: options.Index().SetName(name).SetExpireAfterSeconds(int32(ttl)),
				})
			}

			if group, ok := cfg["compound"]; ok && group != "" {
				if _, seen := compoundKeys[group]; !seen {
					compoundOrder = append(compoundOrder, group)
				}
				compoundKeys[group] = append(compoundKeys[group], bson.E{Key: bsonField, Value: parseOrder(tag)})
				if _, sparse := cfg["sparse"]; sparse {
					compoundSparse[group] = true
				}
			}
		}
	}

	for _, group := range compoundOrder {
		opts := options.Index().SetName(group)
		if strings.Contains(group, "_unique") {
			opts.SetUnique(true)
		}
		if compoundSparse[group] {
			opts.SetSparse(true)
		}
		specs = append(specs, indexSpec{Name: group, Keys: compoundKeys[group], Options: opts})
	}

	return specs, nil
}

// compareIndex reports whether an existing index already matches keys and options
func compareIndex(existingIndex bson.M, keys bson.D, opts *options.IndexOptions) bool {
	existingKeys, ok := existingIndex["key"].(bson.M)
	if !ok || len(existingKeys) != len(keys) {
		return false
	}

	for _, key := range keys {
		existingValue, exists := existingKeys[key.Key]
		if !exists {
			return false
		}

		if newVal, isInt := key.Value.(int); isInt {
			switch ev := existingValue.(type) {
			case int32:
				if int(ev) != newVal {
					return false
				}
			case int64:
				if int(ev) != newVal {
					return false
				}
			case float64:
				if int(ev) != newVal {
					return false
				}
			default:
				return false
			}
		} else if existingValue != key.Value {
			return false
		}
	}

	existingUnique, _ := existingIndex["unique"].(bool)
	wantUnique := opts.Unique != nil && *opts.Unique
	if existingUnique != wantUnique {
		return false
	}

	if opts.ExpireAfterSeconds != nil {
		ttl, ok := existingIndex["expireAfterSeconds"].(int32)
		if !ok || ttl != *opts.ExpireAfterSeconds {
			return false
		}
	}

	return true
}

// checkAndReplaceIndex creates the index, replacing a same-named one whose definition changed
func checkAndReplaceIndex(ctx context.Context, collection *mongo.Collection, existingIndexes map[string]bson.M, spec indexSpec) error {
	log := logger.WithCollection(collection.Name()).WithField("index", spec.Name)

	if existingIndex, exists := existingIndexes[spec.Name]; exists {
		if compareIndex(existingIndex, spec.Keys, spec.Options) {
			log.Debug("Index already exists with the same definition, skipping")
			return nil
		}
		if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
			return fmt.Errorf("cannot drop index %s: %w", spec.Name, err)
		}
		log.Info("Dropped outdated index")
	}

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    spec.Keys,
		Options: spec.Options,
	})
	if err != nil {
		if isIndexExistsError(err) {
			log.WithError(err).Warn("Equivalent index exists under another name, skipping")
			return nil
		}
		return fmt.Errorf("cannot create index %s: %w", spec.Name, err)
	}
	log.Info("Created index")
	return nil
}

// CreateIndexes creates the indexes declared by the `index` tags of model
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	specs, err := buildIndexSpecs(model)
	if err != nil {
		return err
	}

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("cannot list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	existingIndexes := map[string]bson.M{}
	for cursor.Next(ctx) {
		var indexInfo bson.M
		if err := cursor.Decode(&indexInfo); err != nil {
			return fmt.Errorf("cannot decode index info: %w", err)
		}
		if name, ok := indexInfo["name"].(string); ok {
			existingIndexes[name] = indexInfo
		}
	}

	for _, spec := range specs {
		if err := checkAndReplaceIndex(ctx, collection, existingIndexes, spec); err != nil {
			return err
		}
	}
	return nil
}

// isIndexExistsError matches the server errors returned when an equivalent index is already there
func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 85 IndexOptionsConflict, 86 IndexKeySpecsConflict
		if cmdErr.Code == 85 || cmdErr.Code == 86 {
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "IndexOptionsConflict")
}

// isNamespaceExistsError matches the error of creating a collection that already exists
func isNamespaceExistsError(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 48 {
		return true
	}
	return strings.Contains(err.Error(), "already exists")
}

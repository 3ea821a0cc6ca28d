package database

import (
	"context"
	"fmt"
	"time"

	"expo_leads/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Migration is one named, idempotent data fix applied at startup
type Migration struct {
	Name string
	Up   func(ctx context.Context, db *mongo.Database) error
}

// MigrationCollections names the collections touched by the built-in migrations
type MigrationCollections struct {
	Persons     string
	Exhibitions string
	LegacyLeads string
	Migrations  string
}

// missingOrEmpty matches documents where field is absent, null or ""
func missingOrEmpty(field string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{field: bson.M{"$exists": false}},
		bson.M{field: nil},
		bson.M{field: ""},
	}}
}

// DefaultMigrations returns the built-in migration list in apply order
func DefaultMigrations(cols MigrationCollections, defaultCity, defaultType string) []Migration {
	return []Migration{
		{
			Name: "default_city_v1",
			Up: func(ctx context.Context, db *mongo.Database) error {
				for _, name := range []string{cols.Persons, cols.Exhibitions, cols.LegacyLeads} {
					if name == "" {
						continue
					}
					res, err := db.Collection(name).UpdateMany(ctx, missingOrEmpty("city"),
						bson.M{"$set": bson.M{"city": defaultCity}})
					if err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
					logger.WithCollection(name).WithField("modified", res.ModifiedCount).Info("Backfilled default city")
				}
				return nil
			},
		},
		{
			Name: "requirement_array_v1",
			Up: func(ctx context.Context, db *mongo.Database) error {
				// "EMS, BMS" -> ["EMS","BMS"], "" -> []
				pipeline := mongo.Pipeline{
					{{Key: "$set", Value: bson.M{
						"requirement": bson.M{"$filter": bson.M{
							"input": bson.M{"$map": bson.M{
								"input": bson.M{"$split": bson.A{"$requirement", ","}},
								"as":    "r",
								"in":    bson.M{"$trim": bson.M{"input": "$$r"}},
							}},
							"as":   "r",
							"cond": bson.M{"$ne": bson.A{"$$r", ""}},
						}},
					}}},
				}
				res, err := db.Collection(cols.Persons).UpdateMany(ctx,
					bson.M{"requirement": bson.M{"$type": "string"}}, pipeline)
				if err != nil {
					return err
				}
				logger.WithCollection(cols.Persons).WithField("modified", res.ModifiedCount).Info("Converted string requirements to arrays")
				return nil
			},
		},
		{
			Name: "default_type_v1",
			Up: func(ctx context.Context, db *mongo.Database) error {
				res, err := db.Collection(cols.Persons).UpdateMany(ctx, missingOrEmpty("type"),
					bson.M{"$set": bson.M{"type": defaultType}})
				if err != nil {
					return err
				}
				logger.WithCollection(cols.Persons).WithField("modified", res.ModifiedCount).Info("Backfilled record type")
				return nil
			},
		},
	}
}

// RunMigrations applies every migration not yet recorded in recordColl.
// A failing migration is logged and left unrecorded so the next boot retries it.
func RunMigrations(ctx context.Context, db *mongo.Database, recordColl string, migrations []Migration) (applied []string, err error) {
	records := db.Collection(recordColl)
	log := logger.WithModule("database").WithField("collection", recordColl)

	for _, m := range migrations {
		count, err := records.CountDocuments(ctx, bson.M{"_id": m.Name}, options.Count().SetLimit(1))
		if err != nil {
			return applied, fmt.Errorf("check migration %s: %w", m.Name, err)
		}
		if count > 0 {
			log.WithField("migration", m.Name).Debug("Migration already applied, skipping")
			continue
		}

		if err := m.Up(ctx, db); err != nil {
			log.WithField("migration", m.Name).WithError(err).Error("Migration failed")
			continue
		}

		_, err = records.UpdateOne(ctx,
			bson.M{"_id": m.Name},
			bson.M{"$setOnInsert": bson.M{"appliedAt": time.Now()}},
			options.Update().SetUpsert(true))
		if err != nil {
			return applied, fmt.Errorf("record migration %s: %w", m.Name, err)
		}
		applied = append(applied, m.Name)
		log.WithField("migration", m.Name).Info("Migration applied")
	}
	return applied, nil
}

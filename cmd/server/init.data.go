package main

import (
	"context"
	"time"

	expomodels "expo_leads/internal/api/expo/models"
	exposvc "expo_leads/internal/api/expo/service"
	"expo_leads/internal/database"
	"expo_leads/internal/global"
	"expo_leads/internal/logger"
)

// InitDefaultData prepares collections, indexes, migrations and the built-in exhibitions.
// Every step logs its failure and lets the server start anyway.
func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("[INIT] Starting InitDefaultData...")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cols := global.MongoDB_ColNames
	db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName)

	// 1. Collections
	if err := database.EnsureCollections(ctx, db, cols.Persons, cols.Exhibitions, cols.Migrations); err != nil {
		log.WithError(err).Error("[INIT] Step 1: Failed to ensure collections")
	}

	// 2. Indexes from the model tags
	if err := database.CreateIndexes(ctx, db.Collection(cols.Persons), expomodels.PersonRecord{}); err != nil {
		log.WithError(err).Errorf("[INIT] Step 2: Failed to create indexes on %s", cols.Persons)
	}
	if err := database.CreateIndexes(ctx, db.Collection(cols.Exhibitions), expomodels.Exhibition{}); err != nil {
		log.WithError(err).Errorf("[INIT] Step 2: Failed to create indexes on %s", cols.Exhibitions)
	}

	// 3. Data migrations
	migrations := database.DefaultMigrations(database.MigrationCollections{
		Persons:     cols.Persons,
		Exhibitions: cols.Exhibitions,
		LegacyLeads: cols.LegacyLeads,
		Migrations:  cols.Migrations,
	}, expomodels.DefaultCity, string(expomodels.PersonTypeCustomer))
	applied, err := database.RunMigrations(ctx, db, cols.Migrations, migrations)
	if err != nil {
		log.WithError(err).Error("[INIT] Step 3: Migrations stopped")
	} else {
		log.Infof("[INIT] Step 3: %d migration(s) applied", len(applied))
	}

	// 4. Built-in exhibitions
	if !global.MongoDB_ServerConfig.SeedDefaultExhibitions {
		log.Info("[INIT] Step 4: Exhibition seeding disabled")
	} else if exhibitions, err := exposvc.NewExhibitionService(); err != nil {
		log.WithError(err).Error("[INIT] Step 4: Failed to build exhibition service")
	} else if n, err := exhibitions.Seed(ctx, expomodels.DefaultExhibitions); err != nil {
		log.WithError(err).Error("[INIT] Step 4: Failed to seed exhibitions")
	} else {
		log.Infof("[INIT] Step 4: %d default exhibition(s) inserted", n)
	}

	log.Info("[INIT] InitDefaultData completed")
}

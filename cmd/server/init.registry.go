package main

import (
	"expo_leads/config"
	"expo_leads/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

func InitRegistry() {
	err := InitCollections(global.MongoDB_Session, global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Infof("Initialized collection registry: %v", global.RegistryCollections.Names())
}

// InitCollections opens and registers the MongoDB collections
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)
	colNames := []string{
		global.MongoDB_ColNames.Persons,
		global.MongoDB_ColNames.Exhibitions,
		global.MongoDB_ColNames.LegacyLeads,
		global.MongoDB_ColNames.Migrations,
	}

	for _, name := range colNames {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}

		if registered {
			logrus.Infof("Collection %s registered successfully", name)
		} else {
			logrus.Warnf("Collection %s already registered", name)
		}
	}

	return nil
}

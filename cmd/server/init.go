package main

import (
	"context"
	"time"

	"expo_leads/config"
	"expo_leads/internal/database"
	"expo_leads/internal/global"
	"expo_leads/internal/media"

	"github.com/sirupsen/logrus"
)

// InitGlobal fills the global variables used by every package
func InitGlobal() {
	initColNames()
	initValidator()
	initConfig()
	initDatabase_MongoDB()
	initMediaStore()
}

// initColNames sets the collection names
func initColNames() {
	global.MongoDB_ColNames.Persons = "user"
	global.MongoDB_ColNames.Exhibitions = "exhibitions"
	global.MongoDB_ColNames.LegacyLeads = "leads"
	global.MongoDB_ColNames.Migrations = "migrations"

	logrus.Info("Initialized collection names")
}

func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

func initConfig() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to initialize config: %v", err)
	}
	global.MongoDB_ServerConfig = cfg
	logrus.Info("Initialized server config")
}

// initDatabase_MongoDB creates the client. An unreachable server does not stop the boot.
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Initialized MongoDB client")
}

func initMediaStore() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := media.NewStore(ctx, global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to initialize media store: %v", err)
	}
	global.MediaStore = store
}

package global

import (
	"expo_leads/config"
	"expo_leads/internal/media"
	"expo_leads/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionNames holds the names of the collections used by the server
type MongoDB_CollectionNames struct {
	Persons     string // Customers and leads, discriminated by "type"
	Exhibitions string // Exhibitions, referenced by name
	LegacyLeads string // Old standalone lead collection, only touched by migrations
	Migrations  string // Applied startup migrations
}

var Validate *validator.Validate               // Struct/field validator
var MongoDB_Session *mongo.Client              // Shared MongoDB client
var MongoDB_ServerConfig *config.Configuration // Server configuration
var MongoDB_ColNames MongoDB_CollectionNames   // Collection names
var MediaStore media.Store                     // Card image storage backend

var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Opened collections by name

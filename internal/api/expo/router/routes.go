// Package router registers the lead, customer, exhibition and city routes
package router

import (
	"fmt"

	expohdl "expo_leads/internal/api/expo/handler"
	exposvc "expo_leads/internal/api/expo/service"
	"expo_leads/internal/api/middleware"
	apirouter "expo_leads/internal/api/router"
	"expo_leads/internal/global"
	"expo_leads/internal/media"

	"github.com/gofiber/fiber/v3"
)

// NewUploader builds the card uploader from the configured store and limits
func NewUploader() *media.Uploader {
	cfg := global.MongoDB_ServerConfig
	u := &media.Uploader{
		Store:  global.MediaStore,
		Folder: cfg.Media_Folder,
		Rules:  media.DefaultRules(cfg.Media_MaxUploadSize),
	}
	if cfg.Media_Normalize {
		u.Normalizer = &media.Normalizer{MaxWidth: cfg.Media_MaxWidth}
	}
	return u
}

// Register builds the services over the registered collections and mounts the routes
func Register(api fiber.Router, _ *apirouter.Router) error {
	uploader := NewUploader()

	persons, err := exposvc.NewPersonService(uploader)
	if err != nil {
		return fmt.Errorf("person service: %w", err)
	}
	exhibitions, err := exposvc.NewExhibitionService()
	if err != nil {
		return fmt.Errorf("exhibition service: %w", err)
	}
	cities := exposvc.NewCityService(exhibitions, persons)

	Mount(api, expohdl.NewPersonHandler(persons), expohdl.NewExhibitionHandler(exhibitions, cities), uploader.Rules)
	return nil
}

// Mount attaches the handlers. Static paths come before /:id so they are not captured.
func Mount(api fiber.Router, ph *expohdl.PersonHandler, eh *expohdl.ExhibitionHandler, rules media.Rules) {
	guard := middleware.UploadGuard(rules)

	leads := api.Group("/leads")
	leads.Use(guard)
	leads.Post("", ph.HandleCreateLead)
	leads.Get("", ph.HandleListLeads)
	leads.Get("/export", ph.HandleExportLeads)
	leads.Get("/:id", ph.HandleGetLead)
	leads.Put("/:id", ph.HandleUpdateLead)

	customers := api.Group("/customers")
	customers.Use(guard)
	customers.Post("", ph.HandleCreateCustomer)
	customers.Get("", ph.HandleListCustomers)
	customers.Get("/search", ph.HandleSearchCustomers)
	customers.Get("/:id", ph.HandleGetCustomer)
	customers.Put("/:id", ph.HandleUpdateCustomer)
	customers.Delete("/:id", ph.HandleDeleteCustomer)

	api.Post("/exhibitions", eh.HandleCreate)
	api.Get("/exhibitions", eh.HandleList)
	api.Get("/exhibitions/:name", eh.HandleGetByName)
	api.Get("/cities", eh.HandleCities)
}

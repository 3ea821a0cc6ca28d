package expohdl

import (
	"context"
	"net/url"

	basehdl "expo_leads/internal/api/base/handler"
	expodto "expo_leads/internal/api/expo/dto"
	expomodels "expo_leads/internal/api/expo/models"
	"expo_leads/internal/common"
	"expo_leads/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// ExhibitionAPI is what the exhibition handler needs from the service layer
type ExhibitionAPI interface {
	Create(ctx context.Context, in *expodto.ExhibitionCreateInput) (*expomodels.Exhibition, error)
	List(ctx context.Context, city string) ([]expomodels.ExhibitionWithCount, error)
	GetByName(ctx context.Context, name string) (*expomodels.Exhibition, error)
}

// CityLister returns every known city
type CityLister interface {
	List(ctx context.Context) ([]string, error)
}

// ExhibitionHandler serves /exhibitions and /cities
type ExhibitionHandler struct {
	Exhibitions ExhibitionAPI
	Cities      CityLister
}

// NewExhibitionHandler creates an ExhibitionHandler
func NewExhibitionHandler(exhibitions ExhibitionAPI, cities CityLister) *ExhibitionHandler {
	return &ExhibitionHandler{Exhibitions: exhibitions, Cities: cities}
}

// HandleCreate handles POST /exhibitions with a JSON or form body
func (h *ExhibitionHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input expodto.ExhibitionCreateInput
		if len(c.Body()) > 0 {
			if err := c.Bind().Body(&input); err != nil {
				return basehdl.RespondError(c, common.NewError(
					common.ErrCodeValidationFormat, "Malformed request body", common.StatusBadRequest, err,
				), "")
			}
		}

		exh, err := h.Exhibitions.Create(c.Context(), &input)
		if err != nil {
			return basehdl.RespondError(c, err, "Failed to create exhibition")
		}

		logger.LogCRUD("create", "exhibition", exh.ID.Hex(), c, map[string]interface{}{"name": exh.Name})
		return basehdl.RespondCreated(c, "Exhibition created successfully", exh)
	})
}

// HandleList handles GET /exhibitions?city=
func (h *ExhibitionHandler) HandleList(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		list, err := h.Exhibitions.List(c.Context(), c.Query("city"))
		if err != nil {
			return basehdl.RespondError(c, err, "Failed to fetch exhibitions")
		}
		return basehdl.RespondSuccess(c, list)
	})
}

// HandleGetByName handles GET /exhibitions/:name
func (h *ExhibitionHandler) HandleGetByName(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil {
			name = c.Params("name")
		}

		exh, err := h.Exhibitions.GetByName(c.Context(), name)
		if err != nil {
			return basehdl.RespondError(c, notFoundAs(err, "Exhibition not found"), "Failed to fetch exhibition")
		}
		return basehdl.RespondSuccess(c, exh)
	})
}

// HandleCities handles GET /cities
func (h *ExhibitionHandler) HandleCities(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		cities, err := h.Cities.List(c.Context())
		if err != nil {
			return basehdl.RespondError(c, err, "Failed to fetch cities")
		}
		return basehdl.RespondSuccess(c, cities)
	})
}

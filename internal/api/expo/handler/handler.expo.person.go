// Package expohdl serves the lead, customer, exhibition and city routes
package expohdl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	basehdl "expo_leads/internal/api/base/handler"
	basemodels "expo_leads/internal/api/base/models"
	expodto "expo_leads/internal/api/expo/dto"
	expomodels "expo_leads/internal/api/expo/models"
	"expo_leads/internal/api/middleware"
	"expo_leads/internal/common"
	"expo_leads/internal/logger"
	"expo_leads/internal/media"

	"github.com/gofiber/fiber/v3"
)

// PersonAPI is what the person handler needs from the service layer
type PersonAPI interface {
	Create(ctx context.Context, t expomodels.PersonType, in *expodto.PersonInput, atts media.Attachments) (*expomodels.PersonRecord, error)
	Update(ctx context.Context, id string, t expomodels.PersonType, in *expodto.PersonInput, atts media.Attachments) (*expomodels.PersonRecord, error)
	Get(ctx context.Context, id string) (*expomodels.PersonRecord, error)
	List(ctx context.Context, q expodto.PersonQuery) (*basemodels.PaginateResult[expomodels.PersonRecord], error)
	ListLeads(ctx context.Context, q expodto.PersonQuery) ([]expomodels.PersonRecord, error)
	Search(ctx context.Context, query string) ([]expomodels.PersonRecord, error)
	Delete(ctx context.Context, id string) error
	ExportLeads(ctx context.Context, q expodto.PersonQuery) (*bytes.Buffer, error)
}

// PersonHandler serves /leads and /customers
type PersonHandler struct {
	Persons PersonAPI
}

// NewPersonHandler creates a PersonHandler
func NewPersonHandler(persons PersonAPI) *PersonHandler {
	return &PersonHandler{Persons: persons}
}

// variantMessages are the client messages of one route family
type variantMessages struct {
	resource     string
	created      string
	createFailed string
	updated      string
	updateFailed string
	notFound     string
	fetchFailed  string
	getNotFound  string
	listFailed   string
}

var (
	leadMessages = variantMessages{
		resource:     "lead",
		created:      "Lead submitted successfully",
		createFailed: "Failed to save lead",
		updated:      "Lead updated successfully",
		updateFailed: "Failed to update lead",
		notFound:     "Lead not found",
		fetchFailed:  "Failed to fetch lead",
		getNotFound:  "Lead/Customer not found",
		listFailed:   "Failed to fetch leads",
	}
	customerMessages = variantMessages{
		resource:     "customer",
		created:      "Customer details saved successfully",
		createFailed: "Failed to save customer details",
		updated:      "Customer updated successfully",
		updateFailed: "Failed to update customer",
		notFound:     "Customer not found",
		fetchFailed:  "Failed to fetch customer",
		getNotFound:  "Customer not found",
		listFailed:   "Failed to fetch customers",
	}
)

func messagesFor(t expomodels.PersonType) variantMessages {
	if t == expomodels.PersonTypeCustomer {
		return customerMessages
	}
	return leadMessages
}

// notFoundAs replaces the generic not-found error with a route specific message
func notFoundAs(err error, message string) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.NotFoundError(message)
	}
	return err
}

// bindPersonInput reads multipart, urlencoded or JSON bodies
func bindPersonInput(c fiber.Ctx) (*expodto.PersonInput, media.Attachments, error) {
	ctype := strings.ToLower(c.Get(fiber.HeaderContentType))

	switch {
	case strings.HasPrefix(ctype, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, media.Attachments{}, common.UploadError(fmt.Sprintf("Invalid multipart body: %v", err))
		}
		atts, err := middleware.ReadAttachments(c)
		if err != nil {
			return nil, media.Attachments{}, err
		}
		return expodto.PersonInputFromForm(form.Value), atts, nil

	case strings.HasPrefix(ctype, fiber.MIMEApplicationForm):
		values, err := url.ParseQuery(string(c.Body()))
		if err != nil {
			return nil, media.Attachments{}, common.NewError(common.ErrCodeValidationFormat, "Malformed form body", common.StatusBadRequest, err)
		}
		return expodto.PersonInputFromForm(values), media.Attachments{}, nil
	}

	in, err := expodto.PersonInputFromJSON(c.Body())
	return in, media.Attachments{}, err
}

// personQuery reads the list filters and pagination
func personQuery(c fiber.Ctx) expodto.PersonQuery {
	page, limit := basehdl.ParsePagination(c)
	return expodto.PersonQuery{
		Priority:       c.Query("priority"),
		City:           c.Query("city"),
		ExhibitionName: c.Query("exhibitionName"),
		Type:           c.Query("type"),
		Search:         c.Query("search"),
		Page:           page,
		Limit:          limit,
	}
}

func (h *PersonHandler) create(c fiber.Ctx, t expomodels.PersonType) error {
	msgs := messagesFor(t)
	return basehdl.SafeHandler(c, func() error {
		in, atts, err := bindPersonInput(c)
		if err != nil {
			return basehdl.RespondError(c, err, msgs.createFailed)
		}

		rec, err := h.Persons.Create(c.Context(), t, in, atts)
		if err != nil {
			return basehdl.RespondError(c, err, msgs.createFailed)
		}

		logger.LogCRUD("create", msgs.resource, rec.ID.Hex(), c, map[string]interface{}{
			"exhibition": rec.ExhibitionName,
			"cardFront":  rec.CardFront != "",
			"cardBack":   rec.CardBack != "",
		})
		return basehdl.RespondCreated(c, msgs.created, rec)
	})
}

func (h *PersonHandler) update(c fiber.Ctx, t expomodels.PersonType) error {
	msgs := messagesFor(t)
	return basehdl.SafeHandler(c, func() error {
		id := c.Params("id")
		in, atts, err := bindPersonInput(c)
		if err != nil {
			return basehdl.RespondError(c, err, msgs.updateFailed)
		}

		rec, err := h.Persons.Update(c.Context(), id, t, in, atts)
		if err != nil {
			return basehdl.RespondError(c, notFoundAs(err, msgs.notFound), msgs.updateFailed)
		}

		logger.LogCRUD("update", msgs.resource, id, c, nil)
		return basehdl.JSONResponse(c, common.StatusOK, fiber.Map{
			"success": true,
			"message": msgs.updated,
			"data":    rec,
		})
	})
}

func (h *PersonHandler) get(c fiber.Ctx, t expomodels.PersonType) error {
	msgs := messagesFor(t)
	return basehdl.SafeHandler(c, func() error {
		rec, err := h.Persons.Get(c.Context(), c.Params("id"))
		if err != nil {
			return basehdl.RespondError(c, notFoundAs(err, msgs.getNotFound), msgs.fetchFailed)
		}
		return basehdl.RespondSuccess(c, rec)
	})
}

// HandleCreateLead handles POST /leads
func (h *PersonHandler) HandleCreateLead(c fiber.Ctx) error {
	return h.create(c, expomodels.PersonTypeLead)
}

// HandleCreateCustomer handles POST /customers
func (h *PersonHandler) HandleCreateCustomer(c fiber.Ctx) error {
	return h.create(c, expomodels.PersonTypeCustomer)
}

// HandleUpdateLead handles PUT /leads/:id
func (h *PersonHandler) HandleUpdateLead(c fiber.Ctx) error {
	return h.update(c, expomodels.PersonTypeLead)
}

// HandleUpdateCustomer handles PUT /customers/:id
func (h *PersonHandler) HandleUpdateCustomer(c fiber.Ctx) error {
	return h.update(c, expomodels.PersonTypeCustomer)
}

// HandleGetLead handles GET /leads/:id. Any record type is returned.
func (h *PersonHandler) HandleGetLead(c fiber.Ctx) error {
	return h.get(c, expomodels.PersonTypeLead)
}

// HandleGetCustomer handles GET /customers/:id
func (h *PersonHandler) HandleGetCustomer(c fiber.Ctx) error {
	return h.get(c, expomodels.PersonTypeCustomer)
}

// HandleListCustomers handles GET /customers
func (h *PersonHandler) HandleListCustomers(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		page, err := h.Persons.List(c.Context(), personQuery(c))
		if err != nil {
			return basehdl.RespondError(c, err, customerMessages.listFailed)
		}
		return basehdl.RespondPaginated(c, page.Items, page.Pagination())
	})
}

// HandleListLeads handles GET /leads
func (h *PersonHandler) HandleListLeads(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		leads, err := h.Persons.ListLeads(c.Context(), personQuery(c))
		if err != nil {
			return basehdl.RespondError(c, err, leadMessages.listFailed)
		}
		return basehdl.RespondSuccess(c, leads)
	})
}

// HandleSearchCustomers handles GET /customers/search?query=
func (h *PersonHandler) HandleSearchCustomers(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		results, err := h.Persons.Search(c.Context(), c.Query("query"))
		if err != nil {
			return basehdl.RespondError(c, err, "Failed to search customers")
		}
		return basehdl.RespondSuccess(c, results)
	})
}

// HandleDeleteCustomer handles DELETE /customers/:id
func (h *PersonHandler) HandleDeleteCustomer(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id := c.Params("id")
		if err := h.Persons.Delete(c.Context(), id); err != nil {
			return basehdl.RespondError(c, notFoundAs(err, customerMessages.notFound), "Failed to delete customer")
		}
		logger.LogCRUD("delete", customerMessages.resource, id, c, nil)
		return basehdl.RespondMessage(c, "Customer deleted successfully")
	})
}

// HandleExportLeads handles GET /leads/export and sends an xlsx workbook
func (h *PersonHandler) HandleExportLeads(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		buf, err := h.Persons.ExportLeads(c.Context(), personQuery(c))
		if err != nil {
			return basehdl.RespondError(c, err, "Failed to export leads")
		}

		filename := fmt.Sprintf("leads_%s.xlsx", time.Now().Format("20060102_150405"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
		return c.Status(common.StatusOK).Send(buf.Bytes())
	})
}

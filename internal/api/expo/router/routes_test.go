package router

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	basemodels "expo_leads/internal/api/base/models"
	expodto "expo_leads/internal/api/expo/dto"
	expohdl "expo_leads/internal/api/expo/handler"
	expomodels "expo_leads/internal/api/expo/models"
	"expo_leads/internal/logger"
	"expo_leads/internal/media"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&logger.LogConfig{Output: "none"})
	os.Exit(m.Run())
}

// recorder remembers which operation a route reached
type recorder struct {
	called []string
}

func (r *recorder) hit(name string) { r.called = append(r.called, name) }

func (r *recorder) Create(_ context.Context, t expomodels.PersonType, _ *expodto.PersonInput, _ media.Attachments) (*expomodels.PersonRecord, error) {
	r.hit("create:" + string(t))
	return &expomodels.PersonRecord{ID: primitive.NewObjectID(), Type: t}, nil
}

func (r *recorder) Update(_ context.Context, _ string, t expomodels.PersonType, _ *expodto.PersonInput, _ media.Attachments) (*expomodels.PersonRecord, error) {
	r.hit("update:" + string(t))
	return &expomodels.PersonRecord{Type: t}, nil
}

func (r *recorder) Get(context.Context, string) (*expomodels.PersonRecord, error) {
	r.hit("get")
	return &expomodels.PersonRecord{}, nil
}

func (r *recorder) List(context.Context, expodto.PersonQuery) (*basemodels.PaginateResult[expomodels.PersonRecord], error) {
	r.hit("list")
	return &basemodels.PaginateResult[expomodels.PersonRecord]{Page: 1, Limit: 10}, nil
}

func (r *recorder) ListLeads(context.Context, expodto.PersonQuery) ([]expomodels.PersonRecord, error) {
	r.hit("listLeads")
	return []expomodels.PersonRecord{}, nil
}

func (r *recorder) Search(context.Context, string) ([]expomodels.PersonRecord, error) {
	r.hit("search")
	return []expomodels.PersonRecord{}, nil
}

func (r *recorder) Delete(context.Context, string) error {
	r.hit("delete")
	return nil
}

func (r *recorder) ExportLeads(context.Context, expodto.PersonQuery) (*bytes.Buffer, error) {
	r.hit("export")
	return bytes.NewBufferString("xlsx"), nil
}

type noExhibitions struct{}

func (noExhibitions) Create(context.Context, *expodto.ExhibitionCreateInput) (*expomodels.Exhibition, error) {
	return &expomodels.Exhibition{ID: primitive.NewObjectID()}, nil
}

func (noExhibitions) List(context.Context, string) ([]expomodels.ExhibitionWithCount, error) {
	return []expomodels.ExhibitionWithCount{}, nil
}

func (noExhibitions) GetByName(context.Context, string) (*expomodels.Exhibition, error) {
	return &expomodels.Exhibition{}, nil
}

type cityList []string

func (c cityList) List(context.Context) ([]string, error) { return c, nil }

func newApp(rec *recorder) *fiber.App {
	app := fiber.New()
	api := app.Group("/api")
	Mount(api, expohdl.NewPersonHandler(rec), expohdl.NewExhibitionHandler(noExhibitions{}, cityList{"Pune"}), media.DefaultRules(16))
	return app
}

func TestMount_StaticPathsBeforeID(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{fiber.MethodGet, "/api/leads/export", "export"},
		{fiber.MethodGet, "/api/leads", "listLeads"},
		{fiber.MethodGet, "/api/leads/abc", "get"},
		{fiber.MethodGet, "/api/customers/search?query=a", "search"},
		{fiber.MethodGet, "/api/customers", "list"},
		{fiber.MethodDelete, "/api/customers/abc", "delete"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := &recorder{}
			resp, err := newApp(rec).Test(httptest.NewRequest(tt.method, tt.path, nil))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, []string{tt.want}, rec.called)
		})
	}
}

func TestMount_CreateRoutesPickVariant(t *testing.T) {
	rec := &recorder{}
	app := newApp(rec)

	for _, path := range []string{"/api/leads", "/api/customers"} {
		req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewBufferString(`{}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}
	assert.Equal(t, []string{"create:Lead", "create:Customer"}, rec.called)
}

func TestMount_UploadGuardOnPersonRoutes(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(media.FieldCardFront, "front.png")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{1}, 64))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rec := &recorder{}
	req := httptest.NewRequest(fiber.MethodPost, "/api/leads", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, err := newApp(rec).Test(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, rec.called)
}

func TestMount_Cities(t *testing.T) {
	resp, err := newApp(&recorder{}).Test(httptest.NewRequest(fiber.MethodGet, "/api/cities", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

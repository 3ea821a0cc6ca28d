package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"expo_leads/internal/media"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type filePart struct {
	field, name, contentType string
	size                     int
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte("x"), f.size))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func newApp() (*fiber.App, *media.Attachments) {
	var got media.Attachments
	app := fiber.New()
	app.Post("/api/leads", UploadGuard(media.DefaultRules(100)), func(c fiber.Ctx) error {
		atts, err := ReadAttachments(c)
		if err != nil {
			return err
		}
		got = atts
		return c.SendStatus(fiber.StatusCreated)
	})
	return app, &got
}

func send(t *testing.T, app *fiber.App, body io.Reader, contentType string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/leads", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestUploadGuard(t *testing.T) {
	tests := []struct {
		name     string
		files    []filePart
		status   int
		mentions string
	}{
		{"no files", nil, 201, ""},
		{"front and back", []filePart{{"cardFront", "f.jpg", "image/jpeg", 10}, {"cardBack", "b.png", "image/png", 10}}, 201, ""},
		{"too large", []filePart{{"cardBack", "b.jpg", "image/jpeg", 101}}, 400, "cardBack"},
		{"not an image", []filePart{{"cardFront", "f.pdf", "application/pdf", 10}}, 400, "cardFront"},
		{"unknown field", []filePart{{"avatar", "a.jpg", "image/jpeg", 10}}, 400, "avatar"},
		{"two fronts", []filePart{{"cardFront", "1.jpg", "image/jpeg", 10}, {"cardFront", "2.jpg", "image/jpeg", 10}}, 400, "cardFront"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newApp()
			body, ct := multipartBody(t, map[string]string{"name": "Asha"}, tt.files...)
			status, out := send(t, app, body, ct)
			assert.Equal(t, tt.status, status)
			if tt.status == 400 {
				assert.Equal(t, false, out["success"])
				assert.Equal(t, "UPL_001", out["code"])
				assert.Contains(t, out["message"], tt.mentions)
			}
		})
	}
}

func TestReadAttachments(t *testing.T) {
	app, got := newApp()
	body, ct := multipartBody(t, nil, filePart{"cardFront", "front.jpg", "image/jpeg", 7})
	status, _ := send(t, app, body, ct)
	require.Equal(t, 201, status)

	require.NotNil(t, got.Front)
	assert.Nil(t, got.Back)
	assert.Equal(t, "front.jpg", got.Front.Filename)
	assert.Equal(t, "image/jpeg", got.Front.ContentType)
	assert.Len(t, got.Front.Data, 7)
}

func TestUploadGuard_SkipsJSON(t *testing.T) {
	app, got := newApp()
	status, _ := send(t, app, strings.NewReader(`{"name":"Asha"}`), "application/json")
	assert.Equal(t, 201, status)
	assert.True(t, got.Empty())
}

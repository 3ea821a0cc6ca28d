package middleware

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	basehdl "expo_leads/internal/api/base/handler"
	"expo_leads/internal/common"
	"expo_leads/internal/media"

	"github.com/gofiber/fiber/v3"
)

// isMultipart reports whether the request carries a multipart body
func isMultipart(c fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// UploadGuard rejects multipart requests whose files break rules.
// Non-multipart requests pass through untouched.
func UploadGuard(rules media.Rules) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !isMultipart(c) {
			return c.Next()
		}

		form, err := c.MultipartForm()
		if err != nil {
			return basehdl.RespondError(c, common.UploadError(fmt.Sprintf("Invalid multipart body: %v", err)), "")
		}

		if err := checkFiles(form, rules); err != nil {
			return basehdl.RespondError(c, err, "")
		}
		return c.Next()
	}
}

func checkFiles(form *multipart.Form, rules media.Rules) error {
	for field, files := range form.File {
		if err := rules.CheckField(field); err != nil {
			return err
		}
		if len(files) > 1 {
			return common.UploadError(fmt.Sprintf("Only one file is allowed for %s", field))
		}
		for _, fh := range files {
			if err := rules.CheckFile(field, fh.Header.Get(fiber.HeaderContentType), fh.Size); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadAttachments loads the card images of a multipart request into memory.
// Other content types yield empty Attachments.
func ReadAttachments(c fiber.Ctx) (media.Attachments, error) {
	var atts media.Attachments
	if !isMultipart(c) {
		return atts, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return atts, common.UploadError(fmt.Sprintf("Invalid multipart body: %v", err))
	}

	atts.Front, err = readAttachment(form, media.FieldCardFront)
	if err != nil {
		return atts, err
	}
	atts.Back, err = readAttachment(form, media.FieldCardBack)
	if err != nil {
		return atts, err
	}
	return atts, nil
}

func readAttachment(form *multipart.Form, field string) (*media.Attachment, error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]

	f, err := fh.Open()
	if err != nil {
		return nil, common.UploadError(fmt.Sprintf("Cannot read %s", field))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, common.UploadError(fmt.Sprintf("Cannot read %s", field))
	}

	return &media.Attachment{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

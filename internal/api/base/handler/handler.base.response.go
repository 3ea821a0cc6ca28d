// Package basehdl holds the response envelope and helpers shared by every handler
package basehdl

import (
	"errors"
	"fmt"
	"runtime/debug"

	basemodels "expo_leads/internal/api/base/models"
	"expo_leads/internal/common"
	"expo_leads/internal/logger"
	"expo_leads/internal/utility"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse writes data as JSON with an explicit utf-8 charset
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// SafeHandler runs handler and turns a panic into a 500 envelope
func SafeHandler(c fiber.Ctx, handler func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithField("panic", r).Error("Handler panic recovered")
			debug.PrintStack()
			err = RespondError(c, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("unexpected error: %v", r),
				common.StatusInternalServerError,
				nil,
			), common.MsgInternalError)
		}
	}()
	return handler()
}

// RespondSuccess answers 200 {success:true, data}
func RespondSuccess(c fiber.Ctx, data interface{}) error {
	return JSONResponse(c, common.StatusOK, fiber.Map{
		"success": true,
		"data":    data,
	})
}

// RespondMessage answers 200 {success:true, message}
func RespondMessage(c fiber.Ctx, message string) error {
	return JSONResponse(c, common.StatusOK, fiber.Map{
		"success": true,
		"message": message,
	})
}

// RespondCreated answers 201 {success:true, message, data}
func RespondCreated(c fiber.Ctx, message string, data interface{}) error {
	body := fiber.Map{
		"success": true,
		"data":    data,
	}
	if message != "" {
		body["message"] = message
	}
	return JSONResponse(c, common.StatusCreated, body)
}

// RespondPaginated answers 200 {success:true, data, pagination}
func RespondPaginated(c fiber.Ctx, data interface{}, pagination basemodels.Pagination) error {
	return JSONResponse(c, common.StatusOK, fiber.Map{
		"success":    true,
		"data":       data,
		"pagination": pagination,
	})
}

// RespondError answers with the error envelope.
// 5xx responses carry fallback as message and the underlying cause in "error".
func RespondError(c fiber.Ctx, err error, fallback string) error {
	var customErr *common.Error
	if !errors.As(err, &customErr) {
		customErr = common.NewError(common.ErrCodeInternalServer, err.Error(), common.StatusInternalServerError, err).(*common.Error)
	}

	body := fiber.Map{
		"success": false,
		"message": customErr.Message,
		"code":    customErr.Code.Code,
	}

	fields := map[string]interface{}{
		"status":    customErr.StatusCode,
		"errorCode": customErr.Code.Code,
	}
	if customErr.StatusCode >= common.StatusInternalServerError {
		if fallback != "" {
			body["message"] = fallback
		}
		body["error"] = customErr.Cause()
		logger.ErrorWithRequest(c).WithFields(fields).WithError(err).Error("Request failed")
	} else {
		logger.WithRequest(c).WithFields(fields).Info(customErr.Message)
	}

	return JSONResponse(c, customErr.StatusCode, body)
}

// ParsePagination reads page and limit; missing, zero, negative or unparseable values become 1 and 10
func ParsePagination(c fiber.Ctx) (int64, int64) {
	page := utility.PositiveIntOr(c.Query("page"), 1)
	limit := utility.PositiveIntOr(c.Query("limit"), 10)
	return page, limit
}

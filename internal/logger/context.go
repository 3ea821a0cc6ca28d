package logger

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// WithRequest returns an app logger entry carrying request_id, method, path and ip
func WithRequest(c fiber.Ctx) *logrus.Entry {
	return GetAppLogger().WithFields(requestFields(c))
}

// ErrorWithRequest is WithRequest on the error logger
func ErrorWithRequest(c fiber.Ctx) *logrus.Entry {
	return GetErrorLogger().WithFields(requestFields(c))
}

func requestFields(c fiber.Ctx) logrus.Fields {
	fields := logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	}
	if rid := requestID(c); rid != "" {
		fields["request_id"] = rid
	}
	return fields
}

// WithFields returns an app logger entry with extra fields
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields(fields))
}

// WithError returns an app logger entry with the error attached
func WithError(err error) *logrus.Entry {
	return GetAppLogger().WithError(err)
}

// WithModule tags the entry with a module name (expo, media, database, ...)
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}

// WithCollection tags the entry with a MongoDB collection name
func WithCollection(collection string) *logrus.Entry {
	return GetAppLogger().WithField("collection", collection)
}

func requestID(c fiber.Ctx) string {
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		return rid
	}
	if rid := c.Get(fiber.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

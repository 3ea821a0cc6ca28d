package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// AuditAction is one entry of the audit trail
type AuditAction struct {
	Action       string                 `json:"action"`        // e.g. "crud_create"
	ResourceID   string                 `json:"resource_id"`   // affected record id
	ResourceType string                 `json:"resource_type"` // lead, customer, exhibition
	IP           string                 `json:"ip"`
	UserAgent    string                 `json:"user_agent"`
	Details      map[string]interface{} `json:"details"`
	Timestamp    time.Time              `json:"timestamp"`
}

// LogAction writes an audit entry for the current request
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}

	audit := AuditAction{
		Action:    action,
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Details:   details,
		Timestamp: time.Now(),
	}
	if v, ok := details["resource_id"].(string); ok {
		audit.ResourceID = v
	}
	if v, ok := details["resource_type"].(string); ok {
		audit.ResourceType = v
	}
	if rid := requestID(c); rid != "" {
		audit.Details["request_id"] = rid
	}

	GetAuditLogger().WithFields(logrus.Fields{
		"action":        audit.Action,
		"resource_id":   audit.ResourceID,
		"resource_type": audit.ResourceType,
		"ip":            audit.IP,
		"user_agent":    audit.UserAgent,
		"details":       audit.Details,
		"timestamp":     audit.Timestamp,
	}).Info("Audit log")
}

// LogCRUD records a create/update/delete on a record
func LogCRUD(operation string, resourceType string, resourceID string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["operation"] = operation
	details["resource_type"] = resourceType
	details["resource_id"] = resourceID

	LogAction("crud_"+operation, c, details)
}

package logger

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// filteredKey marks entries the async hook must drop
const filteredKey = "_filtered"

// FilterHook marks entries that do not match the configured module, method or level filters.
// Entries without the inspected field are always kept.
type FilterHook struct {
	allowedModules map[string]bool
	allowedMethods map[string]bool
	allowedLevels  map[string]bool

	mu sync.RWMutex
}

// NewFilterHook creates a filter hook from cfg
func NewFilterHook(cfg *LogConfig) *FilterHook {
	h := &FilterHook{}
	h.UpdateFilters(cfg)
	return h
}

// UpdateFilters replaces the filters at runtime
func (h *FilterHook) UpdateFilters(cfg *LogConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.allowedModules = parseFilter(cfg.FilterModules)
	h.allowedMethods = parseFilter(cfg.FilterMethods)
	h.allowedLevels = parseFilter(cfg.FilterLevels)
}

// parseFilter turns "a,b,c" into a lower-cased set; nil means allow all
func parseFilter(filter string) map[string]bool {
	filter = strings.TrimSpace(filter)
	if filter == "" || filter == "*" {
		return nil
	}
	result := make(map[string]bool)
	for _, v := range strings.Split(filter, ",") {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			result[v] = true
		}
	}
	return result
}

// Levels returns every level
func (h *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire marks the entry as filtered when a filter rejects it
func (h *FilterHook) Fire(entry *logrus.Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !allowed(h.allowedLevels, entry.Level.String()) ||
		!allowedField(h.allowedModules, entry.Data["module"]) ||
		!allowedField(h.allowedMethods, entry.Data["method"]) {
		entry.Data[filteredKey] = true
	}
	return nil
}

func allowed(set map[string]bool, value string) bool {
	return set == nil || set[strings.ToLower(value)]
}

func allowedField(set map[string]bool, value interface{}) bool {
	s, ok := value.(string)
	if !ok || s == "" {
		return true
	}
	return allowed(set, s)
}

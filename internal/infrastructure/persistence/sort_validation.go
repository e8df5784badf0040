package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// OperationSortFields contains allowed sort fields for operations
var OperationSortFields = map[string]bool{
	"guid":         true,
	"created_at":   true,
	"updated_at":   true,
	"number":       true,
	"date":         true,
	"status":       true,
	"line":         true,
	"batch_number": true,
}

// PalletSortFields contains allowed sort fields for pallets
var PalletSortFields = map[string]bool{
	"guid":          true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"status":        true,
	"batch_number":  true,
	"content_count": true,
}

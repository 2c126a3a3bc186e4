package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks sortField against a whitelist, falling back to
// defaultField for anything unknown
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// FeeRecordSortFields contains allowed sort fields for fee records
var FeeRecordSortFields = map[string]bool{
	"due_date":     true,
	"amount":       true,
	"period_start": true,
	"paid_date":    true,
	"status":       true,
	"created_at":   true,
}

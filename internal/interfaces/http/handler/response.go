package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/paydesk/backend/internal/domain/shared"
)

// ErrorInfo is the error payload of a failed response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respond writes a success envelope
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondError maps a domain error to an HTTP status and writes the
// error envelope
func respondError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   ErrorInfo{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"},
		})
		return
	}

	c.JSON(statusFor(domainErr.Code), gin.H{
		"success": false,
		"error":   ErrorInfo{Code: domainErr.Code, Message: domainErr.Message},
	})
}

func statusFor(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "UNAUTHORIZED":
		return http.StatusUnauthorized
	case "FORBIDDEN":
		return http.StatusForbidden
	case "CONCURRENCY_CONFLICT":
		return http.StatusConflict
	case "VALIDATION_ERROR", "INVALID_INPUT", "INVALID_STATUS_TRANSITION",
		"IMMUTABLE_STATUS", "ALREADY_EXISTS", "DUPLICATE_ROLE_NAME",
		"ROLE_IN_USE", "SYSTEM_ROLE_IMMUTABLE", "SYSTEM_ROLE_RENAME_FORBIDDEN",
		"INVALID_STATE":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondValidationError writes a 400 for malformed request bodies
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   ErrorInfo{Code: "VALIDATION_ERROR", Message: err.Error()},
	})
}

// parseFilter builds a repository filter from list query parameters
func parseFilter(c *gin.Context) shared.Filter {
	filter := shared.DefaultFilter()

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size > 0 {
		filter.PageSize = size
	}
	filter.Search = c.Query("search")
	if orderBy := c.Query("order_by"); orderBy != "" {
		filter.OrderBy = orderBy
	}
	if dir := c.Query("order_dir"); dir == "asc" || dir == "desc" {
		filter.OrderDir = dir
	}
	return filter
}

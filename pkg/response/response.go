package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response uniform JSON API envelope.
type Response struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data,omitempty"`
	Details string              `json:"details,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Pagination page metadata.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData paged payload.
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

// Error codes shared across modules. Module specific codes live with their handler.
const (
	CodeValidation    = 10001
	CodeRateLimited   = 10004
	CodeBodyTooLarge  = 10005
	CodeInternal      = 50000
	CodeStorageLocked = 50301
)

// ── success ──

// OK 200.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// OKPage 200 with page metadata.
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize, totalPages int) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data: PageData{
			List: list,
			Pagination: Pagination{
				Page:       page,
				PageSize:   pageSize,
				Total:      total,
				TotalPages: totalPages,
			},
		},
	})
}

// ── errors ──

// Error generic error response.
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails error response carrying a detail string.
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// ValidationFailed 400 with per-field messages.
func ValidationFailed(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    CodeValidation,
		Message: "validation failed",
		Errors:  fields,
	})
}

// ── shortcuts ──

// BadRequest 400.
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// NotFound 404.
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// StorageLocked 503, the store stayed busy through every retry.
func StorageLocked(c *gin.Context) {
	Error(c, http.StatusServiceUnavailable, CodeStorageLocked, "storage is busy, try again")
}

// InternalError 500.
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "internal server error")
}

// ── page scripts ──

// Ajax body returned to the scripts of the HTML pages.
type Ajax struct {
	OK          bool                `json:"ok"`
	ID          uint                `json:"id,omitempty"`
	Affected    *bool               `json:"affected,omitempty"`
	BoatUpdated *bool               `json:"boat_updated,omitempty"`
	Reason      string              `json:"reason,omitempty"`
	Errors      map[string][]string `json:"errors,omitempty"`
}

// AjaxOK 200 {ok: true, ...}.
func AjaxOK(c *gin.Context, body Ajax) {
	body.OK = true
	c.JSON(http.StatusOK, body)
}

// AjaxFail {ok: false, ...} with the given status.
func AjaxFail(c *gin.Context, httpStatus int, body Ajax) {
	body.OK = false
	c.JSON(httpStatus, body)
}

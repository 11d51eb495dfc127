package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"harbor-control/internal/dto"
	"harbor-control/pkg/response"
)

// ParseID reads the :id path parameter. ok is false for anything that is not
// a positive integer; the caller decides how to answer.
func ParseID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// bindListParams binds the list query string. Unknown or malformed values are
// tolerated here and resolved to defaults by the service.
func bindListParams(c *gin.Context) dto.ListParams {
	var p dto.ListParams
	_ = c.ShouldBindQuery(&p)
	return p
}

// bindForm decodes the request body into form. Failed binding rules are not
// an error here: the service checks them again and reports them together
// with its cross-field rules.
func bindForm(c *gin.Context, form any) error {
	if err := c.ShouldBind(form); err != nil && !dto.IsRuleFailure(err) {
		return err
	}
	return nil
}

// bindStatus the status and error code for a body that could not be decoded.
func bindStatus(err error) (int, int) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge
	}
	return http.StatusBadRequest, response.CodeValidation
}

// bindFailed answers an API request whose body could not be decoded.
func bindFailed(c *gin.Context, err error) {
	status, code := bindStatus(err)
	if status == http.StatusRequestEntityTooLarge {
		response.Error(c, status, code, "request body too large")
		return
	}
	response.BadRequest(c, code, "malformed request body")
}

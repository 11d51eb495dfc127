package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"harbor-control/internal/dto"
	"harbor-control/internal/pagination"
	"harbor-control/internal/service"
	pkgerrors "harbor-control/pkg/errors"
	"harbor-control/pkg/response"
)

// TrafficHandler traffic log JSON API.
type TrafficHandler struct {
	trafficSvc service.TrafficService
}

// NewTrafficHandler creates a TrafficHandler.
func NewTrafficHandler(trafficSvc service.TrafficService) *TrafficHandler {
	return &TrafficHandler{trafficSvc: trafficSvc}
}

// ListTraffic one page of the log, a calendar day by default.
// GET /api/v1/traffic?q=&sort=&dir=&mode=day|per&per=&page=&day=YYYY-MM-DD
func (h *TrafficHandler) ListTraffic(c *gin.Context) {
	params := bindListParams(c)

	result, err := h.trafficSvc.List(c.Request.Context(), &params)
	if err != nil {
		h.handleTrafficError(c, err)
		return
	}

	response.OK(c, result)
}

// GetTraffic entry detail.
// GET /api/v1/traffic/:id
func (h *TrafficHandler) GetTraffic(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		response.BadRequest(c, response.CodeValidation, "invalid traffic entry id")
		return
	}

	entry, err := h.trafficSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTrafficError(c, err)
		return
	}

	response.OK(c, entry)
}

// CreateTraffic records a movement and moves the linked boat.
// POST /api/v1/traffic
func (h *TrafficHandler) CreateTraffic(c *gin.Context) {
	var form dto.TrafficForm
	if err := bindForm(c, &form); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.trafficSvc.Create(c.Request.Context(), &form)
	if err != nil {
		h.handleTrafficError(c, err)
		return
	}

	response.Created(c, result)
}

func (h *TrafficHandler) handleTrafficError(c *gin.Context, err error) {
	var ve *pkgerrors.ValidationError
	switch {
	case errors.As(err, &ve):
		response.ValidationFailed(c, ve.Fields)
	case errors.Is(err, service.ErrTrafficEntryNotFound):
		response.NotFound(c, 13001, "traffic entry not found")
	case errors.Is(err, pagination.ErrInvalidPage):
		response.NotFound(c, 13002, "invalid page")
	case errors.Is(err, pkgerrors.ErrStorageLocked):
		response.StorageLocked(c)
	default:
		response.InternalError(c)
	}
}

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

// BoatHandler boat module JSON API.
type BoatHandler struct {
	boatSvc service.BoatService
}

// NewBoatHandler creates a BoatHandler.
func NewBoatHandler(boatSvc service.BoatService) *BoatHandler {
	return &BoatHandler{boatSvc: boatSvc}
}

// ListBoats active boats, searched, sorted and paged.
// GET /api/v1/boats?q=&sort=&dir=&per=&page=
func (h *BoatHandler) ListBoats(c *gin.Context) {
	params := bindListParams(c)

	result, err := h.boatSvc.List(c.Request.Context(), &params)
	if err != nil {
		h.handleBoatError(c, err)
		return
	}

	response.OKPage(c, result.Boats, result.Total, result.Page, result.Per, result.NumPages)
}

// GetBoat boat detail.
// GET /api/v1/boats/:id
func (h *BoatHandler) GetBoat(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		response.BadRequest(c, response.CodeValidation, "invalid boat id")
		return
	}

	boat, err := h.boatSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleBoatError(c, err)
		return
	}

	response.OK(c, boat)
}

// CreateBoat registers a boat.
// POST /api/v1/boats
func (h *BoatHandler) CreateBoat(c *gin.Context) {
	var form dto.BoatForm
	if err := bindForm(c, &form); err != nil {
		bindFailed(c, err)
		return
	}

	boat, err := h.boatSvc.Create(c.Request.Context(), &form)
	if err != nil {
		h.handleBoatError(c, err)
		return
	}

	response.Created(c, boat)
}

// UpdateBoat saves the editable fields of an active boat.
// PUT /api/v1/boats/:id
func (h *BoatHandler) UpdateBoat(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		response.BadRequest(c, response.CodeValidation, "invalid boat id")
		return
	}

	var form dto.BoatForm
	if err := bindForm(c, &form); err != nil {
		bindFailed(c, err)
		return
	}

	boat, err := h.boatSvc.Update(c.Request.Context(), id, &form)
	if err != nil {
		h.handleBoatError(c, err)
		return
	}

	response.OK(c, boat)
}

// DeleteBoat removes a boat outright; its traffic entries are kept, unlinked.
// DELETE /api/v1/boats/:id
func (h *BoatHandler) DeleteBoat(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		response.BadRequest(c, response.CodeValidation, "invalid boat id")
		return
	}

	if err := h.boatSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleBoatError(c, err)
		return
	}

	response.OK(c, nil)
}

// SelectableBoats active boats for linking a traffic entry.
// GET /api/v1/boats/selectable
func (h *BoatHandler) SelectableBoats(c *gin.Context) {
	boats, err := h.boatSvc.Selectable(c.Request.Context())
	if err != nil {
		h.handleBoatError(c, err)
		return
	}

	response.OK(c, gin.H{"list": boats})
}

func (h *BoatHandler) handleBoatError(c *gin.Context, err error) {
	var ve *pkgerrors.ValidationError
	switch {
	case errors.As(err, &ve):
		response.ValidationFailed(c, ve.Fields)
	case errors.Is(err, service.ErrBoatNotFound):
		response.NotFound(c, 12001, "boat not found")
	case errors.Is(err, service.ErrBoatNotEditable):
		response.BadRequest(c, 12002, "boat is pending deletion or archived")
	case errors.Is(err, pagination.ErrInvalidPage):
		response.NotFound(c, 12003, "invalid page")
	case errors.Is(err, pkgerrors.ErrStorageLocked):
		response.StorageLocked(c)
	default:
		response.InternalError(c)
	}
}

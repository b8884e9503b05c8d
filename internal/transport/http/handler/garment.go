package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"secondhand-market/internal/app"
	"secondhand-market/internal/model"
	"secondhand-market/internal/transport/http/middleware"
	"secondhand-market/internal/transport/http/response"
)

type GarmentService interface {
	List(ctx context.Context, typeFilter string) ([]model.Garment, error)
	ListByPublisher(ctx context.Context, publisherID uint) ([]model.Garment, error)
	GetByID(ctx context.Context, id uint) (*model.Garment, error)
	Publish(ctx context.Context, input app.GarmentInput, caller *app.Caller) (*model.Garment, error)
	Update(ctx context.Context, id uint, input app.GarmentInput, caller *app.Caller) (*model.Garment, error)
	Unpublish(ctx context.Context, id uint, caller *app.Caller) error
	History(ctx context.Context, id uint) ([]model.GarmentEvent, error)
}

type GarmentHandler struct {
	garmentService GarmentService
}

// GarmentRequest is the body of publish and update. Id and publisher fields
// sent by clients are not part of it and are dropped by the decoder. Price is
// checked by the workflow, after ownership.
type GarmentRequest struct {
	Type        string  `json:"type" binding:"max=255"`
	Description string  `json:"description"`
	Size        string  `json:"size" binding:"max=32"`
	Price       float64 `json:"price"`
}

// GarmentSummary is the projection returned to the publishing caller.
type GarmentSummary struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Size        string  `json:"size"`
	Price       float64 `json:"price"`
}

type GarmentDetail struct {
	ID uint `json:"id"`
	GarmentSummary
	PublisherID uint `json:"publisherId"`
}

type GarmentEventResponse struct {
	Kind       string    `json:"kind"`
	ActorID    uint      `json:"actorId"`
	Price      float64   `json:"price"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewGarmentHandler(garmentService GarmentService) *GarmentHandler {
	return &GarmentHandler{garmentService: garmentService}
}

func (h *GarmentHandler) List(c *gin.Context) {
	garments, err := h.garmentService.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, err, "list garments")
		return
	}
	response.OK(c, toDetails(garments))
}

func (h *GarmentHandler) ListByPublisher(c *gin.Context) {
	publisherID, ok := parseID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid user id")
		return
	}

	garments, err := h.garmentService.ListByPublisher(c.Request.Context(), publisherID)
	if err != nil {
		respondError(c, err, "list publisher garments")
		return
	}
	response.OK(c, toDetails(garments))
}

func (h *GarmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid garment id")
		return
	}

	garment, err := h.garmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get garment")
		return
	}
	response.OK(c, toDetail(garment))
}

func (h *GarmentHandler) History(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid garment id")
		return
	}

	events, err := h.garmentService.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "garment history")
		return
	}

	out := make([]GarmentEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, GarmentEventResponse{
			Kind:       string(e.Kind),
			ActorID:    e.ActorID,
			Price:      e.Price,
			OccurredAt: e.OccurredAt,
		})
	}
	response.OK(c, out)
}

func (h *GarmentHandler) Publish(c *gin.Context) {
	caller := middleware.CallerFromContext(c)
	if caller == nil {
		respondError(c, app.ErrUnauthenticated, "publish garment")
		return
	}

	var req GarmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	garment, err := h.garmentService.Publish(c.Request.Context(), req.toInput(), caller)
	if err != nil {
		respondError(c, err, "publish garment")
		return
	}
	response.Created(c, toSummary(garment))
}

func (h *GarmentHandler) Update(c *gin.Context) {
	caller := middleware.CallerFromContext(c)
	if caller == nil {
		respondError(c, app.ErrUnauthenticated, "update garment")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid garment id")
		return
	}

	var req GarmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	garment, err := h.garmentService.Update(c.Request.Context(), id, req.toInput(), caller)
	if err != nil {
		respondError(c, err, "update garment")
		return
	}
	response.OK(c, toSummary(garment))
}

func (h *GarmentHandler) Unpublish(c *gin.Context) {
	caller := middleware.CallerFromContext(c)
	if caller == nil {
		respondError(c, app.ErrUnauthenticated, "unpublish garment")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid garment id")
		return
	}

	if err := h.garmentService.Unpublish(c.Request.Context(), id, caller); err != nil {
		respondError(c, err, "unpublish garment")
		return
	}
	response.Message(c, fmt.Sprintf("Garment with id %d was deleted", id))
}

func (r GarmentRequest) toInput() app.GarmentInput {
	return app.GarmentInput{
		Type:        r.Type,
		Description: r.Description,
		Size:        r.Size,
		Price:       r.Price,
	}
}

func toSummary(g *model.Garment) GarmentSummary {
	return GarmentSummary{
		Type:        g.Type,
		Description: g.Description,
		Size:        g.Size,
		Price:       g.Price,
	}
}

func toDetail(g *model.Garment) GarmentDetail {
	return GarmentDetail{
		ID:             g.ID,
		GarmentSummary: toSummary(g),
		PublisherID:    g.PublisherID,
	}
}

func toDetails(garments []model.Garment) []GarmentDetail {
	out := make([]GarmentDetail, 0, len(garments))
	for i := range garments {
		out = append(out, toDetail(&garments[i]))
	}
	return out
}

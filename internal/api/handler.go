package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerylCAtieno/persona-studio/internal/apperr"
	"github.com/BerylCAtieno/persona-studio/internal/export"
	"github.com/BerylCAtieno/persona-studio/internal/filter"
	"github.com/BerylCAtieno/persona-studio/internal/logger"
	"github.com/BerylCAtieno/persona-studio/internal/models"
	"github.com/BerylCAtieno/persona-studio/internal/request"
)

// Generator is the remote persona service.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) ([]models.PersonaRecord, error)
	DeleteAll(ctx context.Context) (string, error)
}

type Handler struct {
	builder   *request.Builder
	generator Generator
	log       *logger.Logger
	now       func() time.Time
}

func NewHandler(builder *request.Builder, generator Generator, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		builder:   builder,
		generator: generator,
		log:       log,
		now:       time.Now,
	}
}

// Health answers liveness probes.
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Generate builds a request from the form fields, asks the service for
// personas and replaces the session's working set with them.
func (h *Handler) Generate(c *gin.Context) {
	var raw request.RawInputs
	if err := c.ShouldBindJSON(&raw); err != nil {
		h.log.Warn("failed to decode generation form", "error", err)
		h.sendError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := h.builder.Build(raw)
	if err != nil {
		h.sendAppError(c, err)
		return
	}

	store := sessionFrom(c).Store
	ticket := store.Begin()
	records, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		h.log.Error("persona generation failed", "count", req.Count, "error", err)
		h.sendAppError(c, err)
		return
	}

	if !store.Commit(ticket, records) {
		h.log.Warn("generation result superseded by a newer request", "count", len(records))
		h.sendError(c, http.StatusConflict, CodeSuperseded,
			"A newer request was issued while this one was running; its result was discarded.")
		return
	}

	// Personas is the committed batch; the filtered view is served by View.
	c.JSON(http.StatusOK, models.GenerationResponse{
		Message:  fmt.Sprintf("%d personas generated.", len(records)),
		Personas: records,
	})
}

// DeleteAll deletes every persona on the service and clears the session.
func (h *Handler) DeleteAll(c *gin.Context) {
	var body DeleteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.sendError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body: "+err.Error())
			return
		}
	}
	if !body.Confirm {
		h.sendError(c, http.StatusBadRequest, CodeConfirmationRequired,
			"Deleting all personas cannot be undone; resend with confirm=true.")
		return
	}

	store := sessionFrom(c).Store
	ticket := store.Begin()
	msg, err := h.generator.DeleteAll(c.Request.Context())
	if err != nil {
		h.log.Error("persona deletion failed", "error", err)
		h.sendAppError(c, err)
		return
	}

	// The service has already deleted; only a newer generation may override
	// the local clear.
	if !store.CommitClear(ticket) {
		h.log.Warn("deletion result superseded by a newer request")
	}
	if msg == "" {
		msg = "All personas deleted."
	}
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// View returns the filtered view of the session's working set.
func (h *Handler) View(c *gin.Context) {
	c.JSON(http.StatusOK, h.view(c))
}

// SetFilter replaces the session's criteria with the posted ones.
func (h *Handler) SetFilter(c *gin.Context) {
	var criteria filter.Criteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		h.sendAppError(c, apperr.Wrap(apperr.InvalidFilter, "malformed filter criteria", err))
		return
	}
	sessionFrom(c).Store.SetCriteria(criteria)
	c.JSON(http.StatusOK, h.view(c))
}

func (h *Handler) ClearFilter(c *gin.Context) {
	sessionFrom(c).Store.SetCriteria(filter.Criteria{})
	c.JSON(http.StatusOK, h.view(c))
}

// Search applies query-string criteria to the working set without touching
// the session's stored criteria.
func (h *Handler) Search(c *gin.Context) {
	criteria, err := filter.ParseQuery(c.Request.URL.Query())
	if err != nil {
		h.sendAppError(c, err)
		return
	}
	matched := filter.Apply(sessionFrom(c).Store.Current(), criteria)
	c.JSON(http.StatusOK, SearchResponse{
		Criteria: criteria,
		Count:    len(matched),
		Personas: matched,
	})
}

func (h *Handler) Stats(c *gin.Context) {
	top := defaultTopTokens
	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.sendAppError(c, apperr.Newf(apperr.InvalidFilter, "top must be a non-negative integer, got %q", raw))
			return
		}
		top = n
	}

	personas := sessionFrom(c).Store.Filtered()
	c.JSON(http.StatusOK, StatsResponse{
		Summary:       filter.Summarize(personas),
		Distributions: filter.Distribute(personas),
		TopTokens:     filter.TopTokens(personas, top),
	})
}

// Pivot crosstabs the filtered view by the rows and cols query fields.
func (h *Handler) Pivot(c *gin.Context) {
	rowField, err := filter.ParseField(c.DefaultQuery("rows", string(filter.FieldAgeGroup)))
	if err != nil {
		h.sendAppError(c, err)
		return
	}
	colField, err := filter.ParseField(c.DefaultQuery("cols", string(filter.FieldGender)))
	if err != nil {
		h.sendAppError(c, err)
		return
	}

	table, err := filter.Pivot(sessionFrom(c).Store.Filtered(), rowField, colField)
	if err != nil {
		h.sendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// Export streams the filtered view as an xlsx or csv attachment.
func (h *Handler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		h.sendError(c, http.StatusBadRequest, CodeUnsupportedFormat, err.Error())
		return
	}

	records := sessionFrom(c).Store.Filtered()
	data, err := export.Encode(format, records)
	if err != nil {
		h.log.Error("export failed", "format", string(format), "records", len(records), "error", err)
		h.sendAppError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename(h.now())))
	c.Data(http.StatusOK, format.ContentType(), data)
}

func (h *Handler) view(c *gin.Context) ViewResponse {
	store := sessionFrom(c).Store
	personas := store.Filtered()
	return ViewResponse{
		Total:    store.Len(),
		Filtered: len(personas),
		Criteria: store.Criteria(),
		Personas: personas,
	}
}

func (h *Handler) sendAppError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		h.log.Error("unexpected error", "error", err)
		h.sendError(c, http.StatusInternalServerError, CodeInternal, apperr.UserMessage(err))
		return
	}
	h.sendError(c, appErr.Kind.Status(), string(appErr.Kind), apperr.UserMessage(err))
}

func (h *Handler) sendError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Code: code})
}

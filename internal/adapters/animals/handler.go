// Package animals exposes the animal service over HTTP with gin.
package animals

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"zooapi/internal/core"
	"zooapi/pkg/domain"
)

// InvalidAnimalMessage is the fixed plain-text body returned for rejected
// candidates.
const InvalidAnimalMessage = "The animal is not properly formatted."

const maxBodyBytes = 1 << 20

// Service is the subset of core.Service the handlers depend on.
type Service interface {
	ListAnimals(ctx context.Context, q domain.Query) ([]domain.Animal, error)
	GetAnimal(ctx context.Context, id string) (domain.Animal, error)
	CreateAnimal(ctx context.Context, payload map[string]any) (domain.Animal, error)
}

var _ Service = (*core.Service)(nil)

// Handler serves the /api/animals routes.
type Handler struct {
	Service  Service
	Logger   core.Logger
	ReadOnly bool
}

// Register mounts the animal routes on r, each with and without a trailing
// slash. The create route is omitted in read-only mode.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api/animals")
	for _, suffix := range []string{"", "/"} {
		api.GET(suffix, h.list)
		api.GET("/:id"+suffix, h.get)
		if !h.ReadOnly {
			api.POST(suffix, h.create)
		}
	}
}

func (h *Handler) list(c *gin.Context) {
	animals, err := h.Service.ListAnimals(c.Request.Context(), ParseQuery(c.Request.URL.Query()))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list animals")
		return
	}
	c.JSON(http.StatusOK, animals)
}

func (h *Handler) get(c *gin.Context) {
	animal, err := h.Service.GetAnimal(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, animal)
	case domain.IsNotFound(err):
		c.Status(http.StatusNotFound)
	default:
		writeError(c, http.StatusInternalServerError, "failed to load animal")
	}
}

func (h *Handler) create(c *gin.Context) {
	payload, ok := h.decodePayload(c)
	if !ok {
		writeInvalid(c)
		return
	}
	created, err := h.Service.CreateAnimal(c.Request.Context(), payload)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, created)
	case errors.Is(err, domain.ErrInvalidAnimal):
		writeInvalid(c)
	default:
		writeError(c, http.StatusInternalServerError, "failed to save animal")
	}
}

// decodePayload reads an urlencoded form or a JSON object. Anything else,
// including malformed JSON, is reported as not decodable.
func (h *Handler) decodePayload(c *gin.Context) (map[string]any, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if c.ContentType() == gin.MIMEPOSTForm {
		if err := c.Request.ParseForm(); err != nil {
			h.logger().Debug("form decode failed", "error", err)
			return nil, false
		}
		return formPayload(c.Request.PostForm), true
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger().Debug("body read failed", "error", err)
		return nil, false
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger().Debug("json decode failed", "error", err)
		return nil, false
	}
	return payload, true
}

func (h *Handler) logger() core.Logger {
	if h.Logger == nil {
		return nopLogger{}
	}
	return h.Logger
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func writeInvalid(c *gin.Context) {
	c.Data(http.StatusBadRequest, "text/plain; charset=utf-8", []byte(InvalidAnimalMessage))
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

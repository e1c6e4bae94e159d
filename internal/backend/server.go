// Package backend serves the item REST API that tada consumes.
// It exists for local development and for exercising the client end to end.
package backend

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/itemapi"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// BasePath is where the item resource lives.
const BasePath = "/api/v1/items"

// Handler wires the item routes to a store.
type Handler struct {
	Store  store.Store
	Logger *log.Logger
}

// NewRouter builds the gin engine with request-id, logging and CORS middleware.
func NewRouter(s store.Store, logger *log.Logger) *gin.Engine {
	h := &Handler{Store: s, Logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), h.logRequests(), cors())

	g := r.Group(BasePath)
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
	return r
}

// Serve runs the API on addr until ctx is done.
func Serve(ctx context.Context, addr string, s store.Store, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(s, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("item api listening", "addr", addr, "path", BasePath)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Store.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c *gin.Context) {
	var it model.Item
	if err := c.ShouldBindJSON(&it); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item: " + err.Error()})
		return
	}
	created, err := h.Store.Create(c.Request.Context(), it.Draft())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	it, err := h.Store.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, id)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var it model.Item
	if err := c.ShouldBindJSON(&it); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid item: " + err.Error()})
		return
	}
	updated, err := h.Store.Update(c.Request.Context(), id, it)
	if err != nil {
		h.fail(c, err, id)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) fail(c *gin.Context, err error, id ...int64) {
	if errors.Is(err, store.ErrNotFound) {
		msg := "Task with that ID does not exist."
		if len(id) > 0 {
			msg += " " + strconv.FormatInt(id[0], 10)
		}
		c.JSON(http.StatusNotFound, gin.H{"message": msg})
		return
	}
	h.Logger.Error("store failure", "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id: " + c.Param("id")})
		return 0, false
	}
	return id, true
}

// requestID keeps the caller's X-Request-ID or mints one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(itemapi.RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Header(itemapi.RequestIDHeader, rid)
		c.Next()
	}
}

func (h *Handler) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.Logger.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString("request_id"),
		)
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"signup-service/internal/form"
	"signup-service/internal/service"
	"signup-service/internal/validation"
)

const (
	msgRegistered    = "User registered successfully"
	msgUserExists    = "User already exists"
	msgInternalError = "Internal server error"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	signup   *form.Client
	logger   logrus.FieldLogger
	metrics  *metrics
	gatherer prometheus.Gatherer
}

// NewHandler builds the route set. signup backs the HTML form and may be nil
// to serve the API only. Metrics are registered on registry.
func NewHandler(users service.UserService, signup *form.Client, logger logrus.FieldLogger, registry *prometheus.Registry) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	return &Handler{
		users:    users,
		signup:   signup,
		logger:   logger,
		metrics:  newMetrics(registry),
		gatherer: registry,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), h.accessLog(), h.metrics.middleware(), corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	if h.signup != nil {
		router.SetHTMLTemplate(pageTemplates)
		router.GET("/register", h.showRegisterPage)
		router.POST("/register", h.submitRegisterPage)
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Writer.Header().Set("Access-Control-Expose-Headers", requestIDHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// register always answers with one of three shapes: 201 with the user,
// 400 with a message, or a generic 500.
func (h *Handler) register(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.internalError(c, "read registration body", err)
		return
	}
	// The whole body must be exactly one JSON value; json.Unmarshal rejects
	// trailing data where gin's streaming binder would ignore it.
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.internalError(c, "decode registration body", err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), payload)

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		h.metrics.registrations.WithLabelValues(outcomeInvalid).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Message})
	case errors.Is(err, service.ErrUserAlreadyExists):
		h.metrics.registrations.WithLabelValues(outcomeDuplicate).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": msgUserExists})
	case err != nil:
		h.internalError(c, "register user", err)
	default:
		h.metrics.registrations.WithLabelValues(outcomeCreated).Inc()
		h.log(c).WithField("user_id", user.ID).Info("user registered")
		c.JSON(http.StatusCreated, gin.H{"message": msgRegistered, "user": user})
	}
}

func (h *Handler) internalError(c *gin.Context, action string, err error) {
	h.metrics.registrations.WithLabelValues(outcomeError).Inc()
	h.log(c).WithError(err).Errorf("%s failed", action)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
}

func (h *Handler) log(c *gin.Context) logrus.FieldLogger {
	return h.logger.WithField("request_id", c.GetString(requestIDKey))
}

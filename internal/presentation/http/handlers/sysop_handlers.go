package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zapformai/zapform-analytics/internal/application/services"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
)

// SysOpHandlers exposes the operator endpoints: login, runtime log-level
// control and performance stats.
type SysOpHandlers struct {
	sysopService *services.SysOpService
	logger       *logging.ChanneledLogger
}

// NewSysOpHandlers creates sysop handlers with injected dependencies.
func NewSysOpHandlers(sysopService *services.SysOpService, logger *logging.ChanneledLogger) *SysOpHandlers {
	return &SysOpHandlers{
		sysopService: sysopService,
		logger:       logger,
	}
}

// LoginRequest is the wire format for POST /api/sysop/login.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/sysop/login.
func (h *SysOpHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
		return
	}

	token, err := h.sysopService.Login(req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// SysOpAuthMiddleware requires a valid bearer token from Login.
func (h *SysOpHandlers) SysOpAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || !h.sysopService.ValidateToken(token) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetLogLevels handles GET /api/sysop/logs/levels.
func (h *SysOpHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": h.sysopService.GetLogLevels()})
}

// SetLogLevelRequest is the wire format for POST /api/sysop/logs/levels.
type SetLogLevelRequest struct {
	Channel string `json:"channel" binding:"required"`
	Level   string `json:"level" binding:"required"`
}

// SetLogLevel handles POST /api/sysop/logs/levels.
func (h *SysOpHandlers) SetLogLevel(c *gin.Context) {
	var req SetLogLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel and level required"})
		return
	}

	if err := h.sysopService.SetLogLevel(req.Channel, req.Level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"levels": h.sysopService.GetLogLevels()})
}

// GetStats handles GET /api/sysop/stats.
func (h *SysOpHandlers) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.sysopService.GetPerformanceStats())
}

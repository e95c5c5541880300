package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/logging"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/observability/performance"
	"github.com/zapformai/zapform-analytics/internal/infrastructure/security"
)

// SysOpService handles the operator surface: authentication and runtime
// log-level control. It never touches visitor data.
type SysOpService struct {
	passwordHash string
	jwtSecret    string
	tokenTTL     time.Duration
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewSysOpService creates a sysop service. When no JWT secret is configured,
// an ephemeral one is generated, which invalidates operator tokens across
// restarts but keeps the surface usable.
func NewSysOpService(passwordHash, jwtSecret string, tokenTTL time.Duration, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SysOpService {
	if jwtSecret == "" {
		generated, err := security.GenerateSecureKey(64)
		if err == nil {
			jwtSecret = generated
			logger.Sysop().Warn("No SYSOP_JWT_SECRET configured, generated an ephemeral secret")
		}
	}
	return &SysOpService{
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// Enabled reports whether the operator surface is configured at all.
func (s *SysOpService) Enabled() bool {
	return s.passwordHash != ""
}

// Login validates the operator password and returns a signed bearer token.
func (s *SysOpService) Login(password string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("sysop access is not configured")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		s.logger.Sysop().Warn("Sysop login rejected")
		return "", fmt.Errorf("invalid credentials")
	}

	claims := jwt.MapClaims{
		"type": "sysop_auth",
		"iat":  time.Now().UTC().Unix(),
		"exp":  time.Now().UTC().Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("token generation failed: %w", err)
	}

	s.logger.Sysop().Info("Sysop login accepted")
	return signed, nil
}

// ValidateToken checks a bearer token issued by Login.
func (s *SysOpService) ValidateToken(tokenString string) bool {
	if tokenString == "" {
		return false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	tokenType, ok := claims["type"].(string)
	return ok && tokenType == "sysop_auth"
}

// GetLogLevels returns the current per-channel log levels.
func (s *SysOpService) GetLogLevels() map[string]string {
	return s.logger.GetChannelLevels()
}

// SetLogLevel adjusts one channel's level at runtime.
func (s *SysOpService) SetLogLevel(channel, level string) error {
	if err := s.logger.SetChannelLevel(logging.Channel(channel), logging.ParseLevel(level)); err != nil {
		return err
	}
	s.logger.Sysop().Info("Log level changed", "channel", channel, "level", level)
	return nil
}

// GetPerformanceStats exposes the tracker's aggregate view.
func (s *SysOpService) GetPerformanceStats() performance.Stats {
	return s.perfTracker.GetStats()
}

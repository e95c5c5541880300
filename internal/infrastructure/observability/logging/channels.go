// Package logging provides structured logging channels for the zapform
// analytics runtime, with per-channel levels adjustable at runtime.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Channel represents a logical logging channel for different system components
type Channel string

const (
	// System channels
	ChannelSystem   Channel = "system"   // General system operations
	ChannelStartup  Channel = "startup"  // Application startup and initialization
	ChannelShutdown Channel = "shutdown" // Application shutdown and cleanup

	// Business logic channels
	ChannelAnalytics   Channel = "analytics"   // Event ingestion and session resolution
	ChannelActions     Channel = "actions"     // Engagement action delivery
	ChannelInteraction Channel = "interaction" // Action interaction recording

	// Infrastructure channels
	ChannelDatabase Channel = "database" // Database operations and queries
	ChannelCache    Channel = "cache"    // Cache operations and management
	ChannelSysop    Channel = "sysop"    // Operator endpoints

	// Performance and monitoring channels
	ChannelPerf      Channel = "performance" // Performance monitoring and metrics
	ChannelSlowQuery Channel = "slow-query"  // Slow database queries
)

// allChannels lists every channel initialized by NewChanneledLogger.
var allChannels = []Channel{
	ChannelSystem, ChannelStartup, ChannelShutdown,
	ChannelAnalytics, ChannelActions, ChannelInteraction,
	ChannelDatabase, ChannelCache, ChannelSysop,
	ChannelPerf, ChannelSlowQuery,
}

// ChanneledLogger provides structured logging with multiple channels
type ChanneledLogger struct {
	channels map[Channel]*slog.Logger
	levels   map[Channel]*slog.LevelVar
	config   *LoggerConfig
	mu       sync.RWMutex
}

// LoggerConfig contains configuration options for the channeled logger
type LoggerConfig struct {
	Output        io.Writer  `json:"-"`             // Destination for log output (default os.Stdout)
	JSONFormat    bool       `json:"jsonFormat"`    // Use JSON format for structured logging
	IncludeSource bool       `json:"includeSource"` // Include source file and line in logs
	DefaultLevel  slog.Level `json:"defaultLevel"`  // Default log level for all channels
}

// DefaultLoggerConfig returns a sensible default configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Output:        os.Stdout,
		JSONFormat:    true,
		IncludeSource: false,
		DefaultLevel:  slog.LevelInfo,
	}
}

// ParseLevel converts a level name to a slog.Level, defaulting to INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewChanneledLogger creates a new channeled logger with the given configuration
func NewChanneledLogger(config *LoggerConfig) *ChanneledLogger {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}

	cl := &ChanneledLogger{
		channels: make(map[Channel]*slog.Logger, len(allChannels)),
		levels:   make(map[Channel]*slog.LevelVar, len(allChannels)),
		config:   config,
	}

	for _, channel := range allChannels {
		levelVar := new(slog.LevelVar)
		levelVar.Set(config.DefaultLevel)

		opts := &slog.HandlerOptions{
			Level:     levelVar,
			AddSource: config.IncludeSource,
		}

		var handler slog.Handler
		if config.JSONFormat {
			handler = slog.NewJSONHandler(config.Output, opts)
		} else {
			handler = slog.NewTextHandler(config.Output, opts)
		}

		cl.channels[channel] = slog.New(handler).With(slog.String("channel", string(channel)))
		cl.levels[channel] = levelVar
	}

	return cl
}

func (cl *ChanneledLogger) System() *slog.Logger      { return cl.channels[ChannelSystem] }
func (cl *ChanneledLogger) Startup() *slog.Logger     { return cl.channels[ChannelStartup] }
func (cl *ChanneledLogger) Shutdown() *slog.Logger    { return cl.channels[ChannelShutdown] }
func (cl *ChanneledLogger) Analytics() *slog.Logger   { return cl.channels[ChannelAnalytics] }
func (cl *ChanneledLogger) Actions() *slog.Logger     { return cl.channels[ChannelActions] }
func (cl *ChanneledLogger) Interaction() *slog.Logger { return cl.channels[ChannelInteraction] }
func (cl *ChanneledLogger) Database() *slog.Logger    { return cl.channels[ChannelDatabase] }
func (cl *ChanneledLogger) Cache() *slog.Logger       { return cl.channels[ChannelCache] }
func (cl *ChanneledLogger) Sysop() *slog.Logger       { return cl.channels[ChannelSysop] }
func (cl *ChanneledLogger) Perf() *slog.Logger        { return cl.channels[ChannelPerf] }
func (cl *ChanneledLogger) SlowQuery() *slog.Logger   { return cl.channels[ChannelSlowQuery] }

// GetChannel returns a logger for a specific channel
func (cl *ChanneledLogger) GetChannel(channel Channel) *slog.Logger {
	if logger, exists := cl.channels[channel]; exists {
		return logger
	}
	return cl.channels[ChannelSystem]
}

// SetChannelLevel adjusts the minimum level for one channel at runtime.
func (cl *ChanneledLogger) SetChannelLevel(channel Channel, level slog.Level) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	levelVar, exists := cl.levels[channel]
	if !exists {
		return fmt.Errorf("unknown logging channel: %s", channel)
	}
	levelVar.Set(level)
	return nil
}

// GetChannelLevels returns the current level of every channel.
func (cl *ChanneledLogger) GetChannelLevels() map[string]string {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	levels := make(map[string]string, len(cl.levels))
	for channel, levelVar := range cl.levels {
		levels[string(channel)] = levelVar.Level().String()
	}
	return levels
}

// LogSlowQuery logs a slow database query
func (cl *ChanneledLogger) LogSlowQuery(query string, duration time.Duration) {
	cl.SlowQuery().Warn("Slow query detected",
		slog.String("query", sanitizeQuery(query)),
		slog.Duration("duration", duration),
	)
}

// sanitizeQuery collapses whitespace so multi-line SQL logs as one line.
func sanitizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

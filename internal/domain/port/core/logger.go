package core

// LogLevel orders logging severities from most to least verbose
type LogLevel int

const (
	// LogLevelDebug traces internal decisions, useful during development
	LogLevelDebug LogLevel = iota
	// LogLevelInfo records normal ledger and wallet activity
	LogLevelInfo
	// LogLevelWarn records recoverable anomalies such as lock contention
	LogLevelWarn
	// LogLevelError records failures that need operator attention
	LogLevelError
)

// Logger is the structured logging port the domain layer writes through.
// Fields carry contextual key/value pairs alongside the message.
type Logger interface {
	// SetLevel changes the minimum severity that gets emitted
	SetLevel(level LogLevel)
	// GetLevel reports the current minimum severity
	GetLevel() LogLevel
	// Debug emits a debug-level entry
	Debug(message string, fields map[string]any)
	// Info emits an info-level entry
	Info(message string, fields map[string]any)
	// Warn emits a warn-level entry
	Warn(message string, fields map[string]any)
	// Error emits an error-level entry
	Error(message string, fields map[string]any)
	// Flush drains any buffered entries before shutdown
	Flush() error
}

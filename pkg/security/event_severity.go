package security

import "go.uber.org/zap/zapcore"

// Severity is derived from the EventType, never supplied by the caller.
type Severity string

const (
	SeverityINFO     Severity = "INFO"
	SeverityMEDIUM   Severity = "MEDIUM"
	SeverityWARN     Severity = "WARN"
	SeverityHIGH     Severity = "HIGH"
	SeverityCRITICAL Severity = "CRITICAL"
)

// EventSeverityMap is the fixed severity of each event type.
var EventSeverityMap = map[EventType]Severity{
	// INFO - Normal operations
	EventLoginSuccess: SeverityINFO,

	// MEDIUM - Notable but not urgent
	EventPasswordReset: SeverityMEDIUM,
	EventRolesChanged:  SeverityMEDIUM,

	// WARN - Potential issues, monitor
	EventLoginFailed:        SeverityWARN,
	EventRateLimitTriggered: SeverityWARN,
	EventUnauthorizedAccess: SeverityWARN,
	EventForbiddenAccess:    SeverityWARN,

	// HIGH - Active threats
	EventLoginBlocked: SeverityHIGH,
	EventBlockCreated: SeverityHIGH,
}

// GetSeverity returns the severity for an event type, MEDIUM if unmapped.
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityMEDIUM
}

// IsHighOrAbove returns true if the event is HIGH or CRITICAL severity
func IsHighOrAbove(eventType EventType) bool {
	severity := GetSeverity(eventType)
	return severity == SeverityHIGH || severity == SeverityCRITICAL
}

// IsKnownSeverity reports whether s names a severity level.
func IsKnownSeverity(s string) bool {
	switch Severity(s) {
	case SeverityINFO, SeverityMEDIUM, SeverityWARN, SeverityHIGH, SeverityCRITICAL:
		return true
	}
	return false
}

func levelFor(event EventType) zapcore.Level {
	switch GetSeverity(event) {
	case SeverityINFO, SeverityMEDIUM:
		return zapcore.InfoLevel
	case SeverityHIGH, SeverityCRITICAL:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

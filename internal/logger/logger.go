package logger

// Logger provides structured logging with per-event fields. One instance is
// built per batch run and handed down explicitly; packages never reach for a
// process-wide logger.
type Logger interface {
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
	Debug(component, message string, fields map[string]interface{})
}

package logger

// Nop discards every event. Used as a default in tests.
type Nop struct{}

func (Nop) Info(component, message string, fields map[string]interface{})    {}
func (Nop) Warning(component, message string, fields map[string]interface{}) {}
func (Nop) Error(component string, err error, fields map[string]interface{}) {}
func (Nop) Debug(component, message string, fields map[string]interface{})   {}

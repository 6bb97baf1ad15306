package engine

import "fmt"

// ConfigError reports an invalid component configuration. Construction-time
// validation fails fast with this; nothing is silently defaulted.
type ConfigError struct {
	Component string
	Field     string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Component, e.Field, e.Reason)
}

// ConfigErrorf builds a ConfigError with a formatted reason.
func ConfigErrorf(component, field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{
		Component: component,
		Field:     field,
		Reason:    fmt.Sprintf(format, args...),
	}
}

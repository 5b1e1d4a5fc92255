package signature

// ConfigError reports a programmer error: a declared parameter with no
// resolvable value, a wrong container type for a variadic slot, or a function
// that does not match its declared signature. It is raised synchronously to
// the caller and is never converted into an execution Result.
type ConfigError struct {
	Message string
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return e.Message
}

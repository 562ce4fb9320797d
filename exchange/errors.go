package exchange

import "fmt"

// ConfigError reports an account configuration the venue cannot honor.
// It is returned synchronously from construction or reload and is fatal:
// nothing downstream attempts to recover from it.
type ConfigError string

func (e ConfigError) Error() string {
	return string(e)
}

// NewConfigError builds a ConfigError from a format string.
func NewConfigError(format string, args ...interface{}) ConfigError {
	return ConfigError(fmt.Sprintf(format, args...))
}

package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/sagestudy/internal/logger"
)

// Error kinds. Callers match them with errors.Is.
var (
	// ErrValidation marks bad caller input; nothing is written.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound marks an unknown id; nothing is written.
	ErrNotFound = errors.New("not found")
	// ErrStorage marks a failed read or write of the backing store.
	ErrStorage = errors.New("storage failure")
	// ErrGateway marks a failure of the notification platform.
	ErrGateway = errors.New("notification gateway failure")
)

// Validationf returns an ErrValidation with a formatted message
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf returns an ErrNotFound with a formatted message
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Storage wraps err as an ErrStorage for the named operation
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// Gateway wraps err as an ErrGateway for the named operation
func Gateway(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrGateway, op, err)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a short suggestion for the user, or "" when there is none
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "use the matching 'list' command to see valid ids"
	case errors.Is(err, ErrStorage):
		return "run 'sagestudy doctor' to check the data store"
	default:
		return ""
	}
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if hint := Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}

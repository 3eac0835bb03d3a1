package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/elee1766/decky-plugin/src/config"
	"github.com/elee1766/decky-plugin/src/loader"
	"github.com/elee1766/decky-plugin/src/migrate"
)

// Exit codes following standard conventions
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error
	ExitUsage       = 2 // Usage error
	ExitConfig      = 3 // Configuration error
	ExitPermission  = 5 // Permission error
	ExitNoSpace     = 6 // Destination filesystem full
	ExitInterrupted = 8 // Interrupted by user
	ExitInternal    = 9 // Internal error
)

// ErrorHandler handles different types of errors and exits with appropriate codes
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleError handles an error and exits with the appropriate code
func (h *ErrorHandler) HandleError(err error) {
	if err == nil {
		return
	}

	h.logger.Debug("command failed", "error", err)

	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())

	os.Exit(exitCode(err))
}

// exitCode determines the appropriate exit code for an error
func exitCode(err error) int {
	var validationErr config.ValidationError

	switch {
	case errors.As(err, &validationErr), errors.Is(err, migrate.ErrNoRoot):
		return ExitConfig
	case errors.Is(err, os.ErrPermission):
		return ExitPermission
	case errors.Is(err, migrate.ErrInsufficientSpace):
		return ExitNoSpace
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, loader.ErrInvalidState):
		return ExitInternal
	default:
		return ExitError
	}
}

// FatalError logs a fatal error and exits
func FatalError(logger *slog.Logger, err error) {
	NewErrorHandler(logger).HandleError(err)
}

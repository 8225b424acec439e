package errutil

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/litigio/tramita/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

var sentryEnabled bool

// InitSentry enables error reporting to Sentry. When dsn is empty the
// call is a no-op and errors are only logged.
func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	}); err != nil {
		return goerr.Wrap(err, "failed to initialize sentry")
	}
	sentryEnabled = true
	return nil
}

// FlushSentry drains pending Sentry events before shutdown.
func FlushSentry() {
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}

// Handle logs the error with a message and returns it unchanged.
// This function ensures that all errors, especially background ones,
// are properly logged and reported.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	if sentryEnabled {
		sentry.CaptureException(err)
	}

	return err
}

// HandleHTTP logs the error and writes an appropriate HTTP error response.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	if sentryEnabled && statusCode >= http.StatusInternalServerError {
		sentry.CaptureException(err)
	}

	// server-side failures keep their cause in the log only; the wrapped
	// chain can carry storage backend details that must not reach clients
	message := err.Error()
	if statusCode >= http.StatusInternalServerError {
		message = "internal error"
	}
	http.Error(w, message, statusCode)
}

package errutil

import (
	"context"
	"errors"
	"net/http"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/logging"
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
)

// Handle logs the error with a message and reports it to Sentry when the
// Sentry SDK has been initialized. The error is returned unchanged so the
// caller can keep propagating it.
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

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
	} else if sentry.CurrentHub().Client() != nil {
		sentry.CaptureException(err)
	}

	return err
}

// StatusCode maps the domain error taxonomy to an HTTP status code.
func StatusCode(err error) int {
	switch {
	case goerr.HasTag(err, model.TagValidation):
		return http.StatusBadRequest
	case goerr.HasTag(err, model.TagNotFound):
		return http.StatusNotFound
	case goerr.HasTag(err, model.TagConflict),
		goerr.HasTag(err, model.TagTransition):
		return http.StatusConflict
	case goerr.HasTag(err, model.TagForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// HandleHTTP logs the error and writes the HTTP error response derived from
// the error's tag.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	statusCode := StatusCode(err)
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

	if statusCode >= http.StatusInternalServerError && sentry.CurrentHub().Client() != nil {
		sentry.CaptureException(err)
	}

	http.Error(w, err.Error(), statusCode)
}

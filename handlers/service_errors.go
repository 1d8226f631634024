package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/student-registration/services"
	"github.com/upb/student-registration/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var domainErr *services.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error("unhandled error type", zap.Error(err))
		logWriteError(logger, utils.WriteInternalServerError(w, "An unexpected error occurred"))
		return
	}

	message := domainErr.Message
	details := domainErr.Details
	if len(details) == 0 {
		details = nil
	}

	var writeErr error
	switch domainErr.Type {
	case services.ErrorTypeNotFound:
		writeErr = utils.WriteNotFound(w, message)
	case services.ErrorTypeValidation:
		writeErr = utils.WriteBadRequest(w, message, details)
	case services.ErrorTypeUnauthorized:
		writeErr = utils.WriteUnauthorized(w, message)
	case services.ErrorTypeForbidden:
		writeErr = utils.WriteForbidden(w, message)
	case services.ErrorTypeRateLimit:
		writeErr = utils.WriteTooManyRequests(w, message, details)
	case services.ErrorTypeConflict:
		writeErr = utils.WriteConflict(w, message, details)
	case services.ErrorTypeInternal:
		// the cause stays in the log
		logger.Error("internal server error", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, "An internal error occurred")
	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(domainErr.Type)))
		writeErr = utils.WriteInternalServerError(w, "An unexpected error occurred")
	}
	logWriteError(logger, writeErr)

	logger.Debug("handled service error",
		zap.String("type", string(domainErr.Type)),
		zap.String("message", domainErr.Message),
		zap.Any("details", domainErr.Details))
}

// HandleValidationError handles errors from request decoding and validation
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
		logWriteError(logger, utils.WriteBadRequest(w, "Validation failed", details))
		return
	}

	logWriteError(logger, utils.WriteBadRequest(w, err.Error(), nil))
}

func logWriteError(logger *zap.Logger, err error) {
	if err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}

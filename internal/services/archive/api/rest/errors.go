package rest

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"

	apperrors "github.com/louisbranch/grimoire.space/internal/platform/errors"
	errcatalog "github.com/louisbranch/grimoire.space/internal/platform/errors/i18n"
	"github.com/louisbranch/grimoire.space/internal/platform/i18n"
	"github.com/louisbranch/grimoire.space/internal/services/archive/storage"
)

// errInvalidPageSize rejects non-positive or malformed page_size parameters.
var errInvalidPageSize = apperrors.WithMetadata(
	apperrors.CodeMissingRequiredField,
	"page_size must be a positive integer",
	map[string]string{"Field": "page_size"},
)

// errorPayload is the JSON error body.
type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError renders a domain or storage error as a JSON response. The
// message is localized from the request's Accept-Language header; the code
// stays machine-readable.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := classifyError(err)
	status := httpStatus(appErr)
	if status >= http.StatusInternalServerError {
		s.logger.Printf("archive api: %s %s: %v", r.Method, r.URL.Path, err)
	}

	locale := i18n.ResolveAcceptLanguage(r.Header.Get("Accept-Language")).String()
	message := errcatalog.GetCatalog(locale).Format(string(appErr.Code), appErr.Metadata)
	writeJSON(w, status, errorPayload{
		Code:    string(appErr.Code),
		Message: message,
	})
}

// classifyError folds storage sentinels into the structured error type so
// every failure carries a code.
func classifyError(err error) *apperrors.Error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var related *storage.RelatedResourceError
	if errors.As(err, &related) {
		return apperrors.WithMetadata(
			apperrors.CodeRelatedResourceNotFound,
			related.Error(),
			map[string]string{"Resource": related.Resource, "ID": related.ID},
		)
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, "record not found", err)
	case errors.Is(err, storage.ErrStaleData):
		return apperrors.Wrap(apperrors.CodeStaleData, "record version is stale", err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return apperrors.Wrap(apperrors.CodeAlreadyExists, "record already exists", err)
	default:
		return apperrors.Wrap(apperrors.CodeUnknown, "internal error", err)
	}
}

// httpStatus maps the error's canonical gRPC code onto an HTTP status.
func httpStatus(appErr *apperrors.Error) int {
	switch appErr.Code.GRPCCode() {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition:
		return http.StatusNotFound
	case codes.Aborted, codes.AlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

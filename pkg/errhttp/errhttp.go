// Package errhttp maps domain sentinel errors to HTTP responses.
// Add a case to mapError for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/itemstore/pkg/httpx"
	"github.com/ghuser/itemstore/pkg/telemetry"
	itemdomain "github.com/ghuser/itemstore/services/item/domain"
)

// NotFoundMessage is the body text of every 404 for an item.
const NotFoundMessage = "Item not found"

// WriteError writes err as a JSON error response. Sentinels are matched with
// errors.Is; anything unrecognized is a 500 carrying the raw text of the
// underlying cause, and the full chain is reported to Sentry.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := mapError(err)
	if status >= http.StatusInternalServerError {
		telemetry.CaptureError(r.Context(), err)
	}
	httpx.JSONError(w, status, msg)
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return http.StatusNotFound, NotFoundMessage
	case errors.Is(err, itemdomain.ErrInvalidItemName),
		errors.Is(err, itemdomain.ErrInvalidItemID):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, rootCause(err).Error()
	}
}

// rootCause strips fmt.Errorf("...: %w") layers. Joined errors are kept whole.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

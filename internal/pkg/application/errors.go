package application

import (
	"errors"
	"net/http"

	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/auth"
	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/query"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

//ErrForbidden is returned when an authenticated device may not access a resource
var ErrForbidden = errors.New("device is not allowed to access the resource")

//statusFromAuthError maps a failed authentication to a response status.
//An unknown token is reported as unauthenticated rather than not found.
func statusFromAuthError(err error) int {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusUnauthorized
	}
	return statusFromError(err)
}

func statusFromError(err error) int {
	var decodingErr *auth.DecodingError
	var paramErr *query.ParameterError
	var bodyErr *BodyError
	var pgErr *pgconn.PgError

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrMalformedCredential), errors.As(err, &decodingErr), errors.As(err, &paramErr), errors.As(err, &bodyErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

func (a *api) writeError(w http.ResponseWriter, r *http.Request, err error, status int) {
	log := a.log.WithField("request_id", requestIDFromContext(r.Context()))

	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s failed: %s", r.Method, r.URL.Path, err.Error())
		message = http.StatusText(status)
	} else {
		log.Infof("%s %s rejected with %d: %s", r.Method, r.URL.Path, status, err.Error())
	}

	writeJSON(w, status, map[string]string{"error": message})
}

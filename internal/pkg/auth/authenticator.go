package auth

import (
	"context"
	"net/http"

	"github.com/iot-for-tillgenglighet/geolog/internal/pkg/models"
)

//DeviceLookup resolves a raw device token to the device that owns it
type DeviceLookup interface {
	GetDevice(ctx context.Context, token []byte) (*models.Device, error)
}

//Authenticate resolves an optional Authorization header value to a device.
//Lookup errors are returned as they are, so an unknown token surfaces the
//store's own not-found error.
func Authenticate(ctx context.Context, header string, present bool, lookup DeviceLookup) (*models.Device, error) {
	if !present {
		return nil, ErrUnauthenticated
	}

	token, err := DecodeToken([]byte(header))
	if err != nil {
		return nil, err
	}

	return lookup.GetDevice(ctx, token)
}

//AuthenticateRequest authenticates the device behind an inbound request,
//bound to the request's context
func AuthenticateRequest(r *http.Request, lookup DeviceLookup) (*models.Device, error) {
	values, present := r.Header[http.CanonicalHeaderKey("Authorization")]
	header := ""
	if present && len(values) > 0 {
		header = values[0]
	}

	return Authenticate(r.Context(), header, present, lookup)
}

package auth

import (
	"bytes"
	"encoding/base64"

	"github.com/pkg/errors"
)

//TokenPrefix is the literal that must start every device Authorization header
const TokenPrefix = "Token "

var (
	//ErrUnauthenticated is returned when a request carries no Authorization header
	ErrUnauthenticated = errors.New("request is not authenticated")
	//ErrMalformedCredential is returned when the Authorization header does not start with TokenPrefix
	ErrMalformedCredential = errors.New("authorization header is malformed")
)

//DecodingError is returned when the token part of the header is not valid base64
type DecodingError struct {
	Err error
}

func (e *DecodingError) Error() string {
	return "failed to decode device token: " + e.Err.Error()
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

//DecodeToken strips TokenPrefix from a credential and base64 decodes the rest
func DecodeToken(credential []byte) ([]byte, error) {
	if !bytes.HasPrefix(credential, []byte(TokenPrefix)) {
		return nil, ErrMalformedCredential
	}

	encoded := credential[len(TokenPrefix):]
	token := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))

	n, err := base64.StdEncoding.Decode(token, encoded)
	if err != nil {
		return nil, &DecodingError{Err: err}
	}

	return token[:n], nil
}

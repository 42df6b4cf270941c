package payment

import "errors"

var (
	ErrGatewayUnavailable = errors.New("payment gateway unreachable")
	ErrGatewayRejected    = errors.New("payment gateway rejected the request")
	ErrMalformedResponse  = errors.New("malformed payment gateway response")
)

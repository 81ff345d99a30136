package model

import "errors"

// Sentinel errors for the per-ticker failure taxonomy. Failure sites wrap
// them with fmt.Errorf("%w: ...") so the scan boundary can classify.
var (
	ErrDataUnavailable = errors.New("data unavailable")
	ErrGatewayFailure  = errors.New("gateway failure")
	ErrMalformedBar    = errors.New("malformed bar")
)

// SkipKind classifies why a ticker was skipped.
type SkipKind string

const (
	KindDataUnavailable SkipKind = "DATA_UNAVAILABLE"
	KindGatewayFailure  SkipKind = "GATEWAY_FAILURE"
	KindMalformedBar    SkipKind = "MALFORMED_BAR"
)

// Classify maps an error to its SkipKind. Anything not tagged with a
// sentinel came from transport or decoding and counts as a gateway failure.
func Classify(err error) SkipKind {
	switch {
	case errors.Is(err, ErrMalformedBar):
		return KindMalformedBar
	case errors.Is(err, ErrDataUnavailable):
		return KindDataUnavailable
	default:
		return KindGatewayFailure
	}
}

package consent

import "errors"

var (
	ErrUnknownCategory   = errors.New("unknown consent category")
	ErrNecessaryRequired = errors.New("necessary cookies cannot be disabled")
	ErrMissingSubject    = errors.New("sign in or send an X-Consent-ID header")
)

package notary

import "errors"

// Workflow rejections. All are recoverable: the caller retries with a fresh
// challenge.
var (
	ErrMalformedMessage = errors.New("challenge message is malformed")
	ErrExpiredChallenge = errors.New("challenge has expired")
	ErrInvalidSignature = errors.New("signature verification failed")
)

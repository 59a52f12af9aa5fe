package service

import "errors"

// Registry rule violations. Anything else returned by the service is an
// environment fault (storage, encoding) and not part of this set.
var (
	ErrInvalidData      = errors.New("invalid data")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyVerified  = errors.New("invoice already verified")
	ErrAlreadyTokenized = errors.New("invoice already tokenized")
	ErrNotOwner         = errors.New("caller is not the token owner")
	ErrAlreadyExists    = errors.New("invoice already exists")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidData, "InvalidData"},
	{ErrUnauthorized, "Unauthorized"},
	{ErrNotFound, "NotFound"},
	{ErrAlreadyVerified, "AlreadyVerified"},
	{ErrAlreadyTokenized, "AlreadyTokenized"},
	{ErrNotOwner, "NotOwner"},
	{ErrAlreadyExists, "AlreadyExists"},
}

// ErrorKind names the registry error wrapped by err, or returns "" for
// nil and environment errors.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}

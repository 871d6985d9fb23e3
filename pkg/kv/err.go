package kv

import "errors"

var (
	ErrKeyNotFound      = errors.New("key not found")
	ErrMethodNotAllowed = errors.New("method is not allowed")
	ErrSessionClosed    = errors.New("session already closed")
)

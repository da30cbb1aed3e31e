package service

import "errors"

var (
	ErrVersionNotFound = errors.New("version not found")
	ErrInvalidVersion  = errors.New("invalid version code")
	ErrServiceClosed   = errors.New("preference service closed")
)

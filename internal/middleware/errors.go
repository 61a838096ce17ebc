package middleware

import "errors"

var errInternal = errors.New("internal server error")

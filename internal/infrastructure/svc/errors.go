package svc

import "errors"

// ErrStorageInitFailed wraps failures while bringing up cache/history backends.
var ErrStorageInitFailed = errors.New("storage initialization failed")

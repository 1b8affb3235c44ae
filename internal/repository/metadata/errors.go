package metadata

import "errors"

var ErrCacheMiss = errors.New("cache miss")

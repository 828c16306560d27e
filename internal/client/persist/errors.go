package persist

import "errors"

var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

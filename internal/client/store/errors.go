package store

import (
	"errors"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/client"
	"github.com/dmitrijs2005/marketsupervisor/internal/common"
)

// isRejection reports whether err means the stored credential is no good,
// as opposed to the backend being unreachable.
func isRejection(err error) bool {
	return errors.Is(err, client.ErrUnauthorized) ||
		errors.Is(err, common.ErrNoToken) ||
		errors.Is(err, common.ErrInvalidToken)
}

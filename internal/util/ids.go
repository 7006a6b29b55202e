// internal/util/ids.go
// Generator ID untuk run DCA / request

package util

import (
	"github.com/google/uuid"
)

func NewID() string {
	return uuid.New().String()
}

package flows

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/vendordesk/internal/common"
)

var (
	ErrInvalidCode    = errors.New("code must be 6 digits")
	ErrResendTooEarly = errors.New("code can be resent once the countdown ends")
	ErrWrongStep      = errors.New("not available at this step")
)

// FieldErrors maps a form field to the reason it was rejected.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e[k])
	}
	return strings.Join(parts, "; ")
}

func (e FieldErrors) Unwrap() error {
	return common.ErrValidation
}

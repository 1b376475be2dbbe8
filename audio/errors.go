// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrNotRegistered    = errors.New("handler not registered for extension")
)

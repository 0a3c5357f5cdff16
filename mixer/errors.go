// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	ErrInvalidConfig   = errors.New("invalid output configuration")
	ErrTooManyChannels = errors.New("too many channels")
	ErrZeroSampleRate  = errors.New("sample rate must be positive")
	ErrNilProducer     = errors.New("nil producer")
)

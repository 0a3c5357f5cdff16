// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize  = errors.New("dst size must be multiple of block align")
	ErrUnknownFormat   = errors.New("unknown sample format")
	ErrInvalidChannels = errors.New("invalid channel count")
	ErrNoDecoder       = errors.New("no decoder registered")
	ErrUnknownLayout   = errors.New("unknown channel layout")
)

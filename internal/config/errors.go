// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	ErrCouldNotParseConfig = errors.New("could not parse config")
	ErrNoTracks            = errors.New("no tracks to mix")
	ErrInvalidTrack        = errors.New("invalid track")
)

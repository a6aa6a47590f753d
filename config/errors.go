// SPDX-License-Identifier: MIT

package config

import "errors"

var (
	// ErrUnknownFormat indicates a file extension other than .yaml, .yml or .toml.
	ErrUnknownFormat = errors.New("config: unknown file format")

	// ErrInvalid indicates a configuration value outside its domain.
	ErrInvalid = errors.New("config: invalid value")
)

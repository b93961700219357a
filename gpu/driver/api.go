// SPDX-License-Identifier: Unlicense OR MIT

package driver

import (
	"fmt"
)

type API interface {
	implementsAPI()
}

// Software selects the pure Go reference device.
type Software struct {
	// Width and Height of the display surface. Zero values select
	// 960x544.
	Width, Height int
}

// API specific device constructors.
var (
	NewSoftwareDevice func(api Software) (Device, error)
)

// NewDevice creates a new Device given the api.
func NewDevice(api API) (Device, error) {
	switch api := api.(type) {
	case Software:
		if NewSoftwareDevice != nil {
			return NewSoftwareDevice(api)
		}
	}
	return nil, fmt.Errorf("driver: no driver available for the API %T", api)
}

func (Software) implementsAPI() {}

// SPDX-License-Identifier: EPL-2.0

package mixer

// Device is the output sink a Mixer renders for. It gets the final word on every
// output configuration the mixer computes.
type Device interface {
	// NegotiateConfig returns the configuration the sink will actually use for
	// want. An error keeps want unchanged.
	NegotiateConfig(want Config) (Config, error)
}

// DeviceFunc adapts a function to Device.
type DeviceFunc func(want Config) (Config, error)

func (f DeviceFunc) NegotiateConfig(want Config) (Config, error) { return f(want) }

// FixedDevice is a Device that always plays Config.
type FixedDevice struct {
	Config Config
}

func (d FixedDevice) NegotiateConfig(Config) (Config, error) {
	if err := d.Config.Validate(); err != nil {
		return Config{}, err
	}

	return d.Config, nil
}

package camera

// Preset names for common configurations
const (
	PresetDefault = "default"
	Preset480p    = "480p"
	Preset720p    = "720p"
	Preset1080p   = "1080p"
	PresetMax     = "max"
	PresetRotated = "rotated"
)

// Presets returns all available preset configurations.
func Presets() map[string]Config {
	return map[string]Config{
		PresetDefault: DefaultConfig(),
		Preset480p:    SD480Config(),
		Preset720p:    HD720Config(),
		Preset1080p:   HD1080Config(),
		PresetMax:     MaxResConfig(),
		PresetRotated: RotatedConfig(),
	}
}

// PresetNames returns the list of available preset names.
func PresetNames() []string {
	return []string{
		PresetDefault,
		Preset480p,
		Preset720p,
		Preset1080p,
		PresetMax,
		PresetRotated,
	}
}

// GetPreset returns a preset config by name, or nil if not found.
func GetPreset(name string) *Config {
	presets := Presets()
	if cfg, ok := presets[name]; ok {
		return &cfg
	}
	return nil
}

// SD480Config returns 640x480. Fastest option for constrained boards.
func SD480Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 640
	cfg.Height = 480
	return cfg
}

// HD720Config returns 1280x720.
// Good balance of quality and performance.
func HD720Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 1280
	cfg.Height = 720
	return cfg
}

// HD1080Config returns 1920x1080.
func HD1080Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 1920
	cfg.Height = 1080
	return cfg
}

// MaxResConfig returns the sensor-native resolution.
// The IMX219 only sustains 21 fps at full resolution.
func MaxResConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = SensorMaxWidth
	cfg.Height = SensorMaxHeight
	cfg.Framerate = 21
	return cfg
}

// RotatedConfig returns the default resolution rotated 180 degrees,
// for sensors mounted upside down.
func RotatedConfig() Config {
	cfg := DefaultConfig()
	cfg.FlipMethod = FlipRotate180
	return cfg
}

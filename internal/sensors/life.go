package sensors

import "github.com/jkaberg/kidde-hass/internal/kidde"

// LifeConfig carries the model-dependent display metadata for the "life"
// sensor. DETECT series detectors report end-of-life in days, everything
// else in weeks.
type LifeConfig struct {
	Name string
	Unit string
}

var lifeConfigByModel = map[int]LifeConfig{
	48: {Name: "Days to replace", Unit: "d"}, // DETECT Smoke/CO
	46: {Name: "Days to replace", Unit: "d"}, // DETECT Smoke Only
}

var lifeConfigDefault = LifeConfig{Name: "Weeks to replace", Unit: "w"}

// LifeConfigFor resolves the life sensor's name and unit for a device.
// Unknown or missing mb_model values fall back to the default entry.
func LifeConfigFor(data kidde.DeviceData) LifeConfig {
	mbModel, ok := data.MBModel()
	if !ok {
		return lifeConfigDefault
	}
	if cfg, ok := lifeConfigByModel[mbModel]; ok {
		return cfg
	}
	return lifeConfigDefault
}

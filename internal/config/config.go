package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// WindowConfig holds the native window settings.
type WindowConfig struct {
	Title  string `json:"title" mapstructure:"title"`
	Width  int    `json:"width" mapstructure:"width"`
	Height int    `json:"height" mapstructure:"height"`
}

// ModelConfig holds the asset path and stage presentation settings.
type ModelConfig struct {
	Path       string  `json:"path" mapstructure:"path"`
	TargetSize float64 `json:"targetSize" mapstructure:"targetSize"`
	TiltX      float64 `json:"tiltX" mapstructure:"tiltX"`
	TiltZ      float64 `json:"tiltZ" mapstructure:"tiltZ"`
}

// RigConfig holds the orbit rig tuning values.
type RigConfig struct {
	Radius         float64       `json:"radius" mapstructure:"radius"`
	AutoRotateStep float64       `json:"autoRotateStep" mapstructure:"autoRotateStep"`
	ResumeDelay    time.Duration `json:"resumeDelay" mapstructure:"resumeDelay"`
	DragDivisor    float64       `json:"dragDivisor" mapstructure:"dragDivisor"`
	PolarLock      bool          `json:"polarLock" mapstructure:"polarLock"`
	PolarAngle     float64       `json:"polarAngle" mapstructure:"polarAngle"`
}

// PreviewConfig holds the websocket status publisher settings.
type PreviewConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Addr    string `json:"addr" mapstructure:"addr"`
}

// Load reads configuration from a JSON file and sets default values.
// configDir is the directory containing the config file. A missing file is
// not an error; the defaults carry the viewer on their own.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("window.title", "Product Showcase")
	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)

	viper.SetDefault("model.path", "")
	viper.SetDefault("model.targetSize", 3.0)
	viper.SetDefault("model.tiltX", 0.2)
	viper.SetDefault("model.tiltZ", -0.1)

	viper.SetDefault("rig.radius", 5.0)
	viper.SetDefault("rig.autoRotateStep", 0.005)
	viper.SetDefault("rig.resumeDelay", "2s")
	viper.SetDefault("rig.dragDivisor", 200.0)
	viper.SetDefault("rig.polarLock", true)
	viper.SetDefault("rig.polarAngle", 1.5707963)

	viper.SetDefault("preview.enabled", false)
	viper.SetDefault("preview.addr", ":8099")

	viper.SetConfigName("showcase.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return nil
		}
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetWindowConfig returns the window settings.
func GetWindowConfig() WindowConfig {
	return WindowConfig{
		Title:  viper.GetString("window.title"),
		Width:  viper.GetInt("window.width"),
		Height: viper.GetInt("window.height"),
	}
}

// GetModelConfig returns the asset and stage settings.
func GetModelConfig() ModelConfig {
	return ModelConfig{
		Path:       viper.GetString("model.path"),
		TargetSize: viper.GetFloat64("model.targetSize"),
		TiltX:      viper.GetFloat64("model.tiltX"),
		TiltZ:      viper.GetFloat64("model.tiltZ"),
	}
}

// GetRigConfig returns the orbit rig settings.
func GetRigConfig() RigConfig {
	return RigConfig{
		Radius:         viper.GetFloat64("rig.radius"),
		AutoRotateStep: viper.GetFloat64("rig.autoRotateStep"),
		ResumeDelay:    viper.GetDuration("rig.resumeDelay"),
		DragDivisor:    viper.GetFloat64("rig.dragDivisor"),
		PolarLock:      viper.GetBool("rig.polarLock"),
		PolarAngle:     viper.GetFloat64("rig.polarAngle"),
	}
}

// GetPreviewConfig returns the status publisher settings.
func GetPreviewConfig() PreviewConfig {
	return PreviewConfig{
		Enabled: viper.GetBool("preview.enabled"),
		Addr:    viper.GetString("preview.addr"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

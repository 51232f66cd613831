package config

// Backends a scene registry can run on
const (
	BackendEbiten   = "ebiten"
	BackendTerminal = "terminal"
	BackendHeadless = "headless"
)

// AppConfig holds the application configuration
type AppConfig struct {
	Display    DisplayConfig `mapstructure:"display"`
	Backend    string        `mapstructure:"backend"`
	StartScene string        `mapstructure:"startScene"`
	CancelKeys []string      `mapstructure:"cancelKeys"`
	Log        LogConfig     `mapstructure:"log"`
	Metrics    MetricsConfig `mapstructure:"metrics"`
	Record     string        `mapstructure:"record"`
	Replay     string        `mapstructure:"replay"`
}

// DisplayConfig holds window and timing settings
type DisplayConfig struct {
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	Scale     int    `mapstructure:"scale"`
	Framerate int    `mapstructure:"framerate"`
	Title     string `mapstructure:"title"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// MetricsConfig holds the metrics endpoint settings. An empty address
// disables the endpoint.
type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

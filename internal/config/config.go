// Package config assembles runtime settings for the contacts application.
// Values are layered: defaults, then an optional JSON file, then flags.
// Later sources take precedence over earlier ones.
package config

// Config holds runtime settings for the contacts CLI.
//
// Fields:
//   - DatabasePath: path to the SQLite database file.
//   - PhotoDir: directory owned by the app for imported contact photos.
//   - DeviceSourcePath: path to the device address book (a vCard file);
//     empty disables device import/export.
type Config struct {
	DatabasePath     string
	PhotoDir         string
	DeviceSourcePath string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "contacts.db"
	c.PhotoDir = "photos"
	c.DeviceSourcePath = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

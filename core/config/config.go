package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"dlc-updater/core/database"
	"dlc-updater/core/logger"
	"dlc-updater/core/server"
	"dlc-updater/core/steam"
	"dlc-updater/core/steamcmd"
	"dlc-updater/core/storage"
	"dlc-updater/feature/archive"
	"dlc-updater/feature/dlc"
	"dlc-updater/feature/inventory"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Each section belongs to the package that consumes it.
type Config struct {
	// Steam holds configuration for the store metadata client.
	Steam steam.Config `mapstructure:"steam"`
	// SteamCMD holds configuration for the hidden DLC discovery tool.
	SteamCMD steamcmd.Config `mapstructure:"steamcmd"`
	// Discovery holds worker and pacing settings for the discovery engine.
	Discovery dlc.Config `mapstructure:"discovery"`
	// Inventory locates the patch directories and store files.
	Inventory inventory.Config `mapstructure:"inventory"`
	// Archive holds configuration for the dated patch archive.
	Archive archive.Config `mapstructure:"archive"`
	// Storage holds configuration for the archive object store.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the optional run history database.
	Database database.Config `mapstructure:"database"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
}

// LoadConfig loads configuration from environment variables and the .env file in path.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. INVENTORY_BASE_DIR -> inventory.base_dir)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}

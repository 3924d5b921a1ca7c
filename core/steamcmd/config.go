package steamcmd

// Config holds configuration for the SteamCMD discovery tool.
type Config struct {
	// Path is the SteamCMD launcher script or binary.
	Path string `mapstructure:"path" default:"/data/steamcmd.sh"`
	// TimeoutSeconds bounds a single app_info dump.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// ProbeTimeoutSeconds bounds the availability probe.
	ProbeTimeoutSeconds int `mapstructure:"probe_timeout_seconds" default:"10"`
}

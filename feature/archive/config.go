package archive

// Config holds configuration for the patch archive.
type Config struct {
	// Enabled builds an archive after a run that changed a store.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// OutputDir receives the archive file.
	OutputDir string `mapstructure:"output_dir" default:"output"`
	// Name is the archive name after the date stamp.
	Name string `mapstructure:"name" default:"P社游戏DLC补丁"`
	// Retain is the number of uploaded archives kept; older ones are removed. Zero keeps all.
	Retain int `mapstructure:"retain" default:"0"`
}

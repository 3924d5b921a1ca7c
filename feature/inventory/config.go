package inventory

import "path/filepath"

const (
	blockFile = "cream_api.ini"
	flatFile  = "DLC.txt"
)

// Config locates the two patch directories and their store files.
type Config struct {
	// BaseDir holds both patch directories.
	BaseDir string `mapstructure:"base_dir" default:"."`
	// BlockDir contains cream_api.ini.
	BlockDir string `mapstructure:"block_dir" default:"正版DLC破解补丁"`
	// FlatDir contains steam_settings/DLC.txt.
	FlatDir string `mapstructure:"flat_dir" default:"局域网DLC破解补丁"`
}

// BlockPath returns the block store file.
func (c Config) BlockPath() string {
	return filepath.Join(c.BaseDir, c.BlockDir, blockFile)
}

// FlatPath returns the flat store file.
func (c Config) FlatPath() string {
	return filepath.Join(c.BaseDir, c.FlatDir, "steam_settings", flatFile)
}

// PatchDirs returns both patch directories, block first. They are the archive roots.
func (c Config) PatchDirs() []string {
	return []string{
		filepath.Join(c.BaseDir, c.BlockDir),
		filepath.Join(c.BaseDir, c.FlatDir),
	}
}

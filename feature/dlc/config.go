package dlc

import "time"

// Config holds configuration for the discovery engine.
type Config struct {
	// Workers bounds concurrent official DLC resolutions per game.
	Workers int `mapstructure:"workers" default:"3"`
	// PacingMillis is the pause between successive resolution submissions.
	PacingMillis int `mapstructure:"pacing_ms" default:"300"`
	// GameConcurrency bounds how many games are discovered at once.
	GameConcurrency int `mapstructure:"game_concurrency" default:"1"`
	// SkipHidden disables the discovery tool path.
	SkipHidden bool `mapstructure:"skip_hidden" default:"false"`
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return 3
	}
	return c.Workers
}

func (c Config) pacing() time.Duration {
	if c.PacingMillis <= 0 {
		return 0
	}
	return time.Duration(c.PacingMillis) * time.Millisecond
}

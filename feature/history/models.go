package history

import "time"

// Run is one reconciliation run.
type Run struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	StartedAt   time.Time `gorm:"index" json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	DryRun      bool      `json:"dry_run"`
	Changed     bool      `json:"changed"`
	Games       int       `json:"games"`
	FailedGames int       `json:"failed_games"`
	Discovered  int       `json:"discovered"`
	NewRecords  int       `json:"new_records"`
	Archive     string    `gorm:"size:512" json:"archive,omitempty"`

	GameResults []RunGame `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"games_detail,omitempty"`
}

// TableName overrides the GORM table name.
func (Run) TableName() string { return "dlc_runs" }

// RunGame holds one game's discovery counts within a run.
type RunGame struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	RunID       string `gorm:"size:36;index" json:"-"`
	Game        string `gorm:"size:128" json:"game"`
	Discovered  int    `json:"discovered"`
	Official    int    `json:"official"`
	Hidden      int    `json:"hidden"`
	Fallback    int    `json:"fallback"`
	Placeholder int    `json:"placeholder"`
	NewRecords  int    `json:"new_records"`
	Error       string `gorm:"size:1024" json:"error,omitempty"`
}

// TableName overrides the GORM table name.
func (RunGame) TableName() string { return "dlc_run_games" }

var expectedColumns = map[string][]string{
	"dlc_runs":      {"id", "started_at", "finished_at", "dry_run", "changed", "games", "failed_games", "discovered", "new_records", "archive"},
	"dlc_run_games": {"id", "run_id", "game", "discovered", "official", "hidden", "fallback", "placeholder", "new_records", "error"},
}

// Package database opens the optional run history database.
//
// It wraps GORM with the MySQL and SQLite dialects. Run history is never required
// for reconciliation: an empty driver disables it and Connect returns ErrDisabled.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live column list so the history
// ledger can report a schema that drifted from its models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Run history unavailable", zap.Error(err))
//	}
package database

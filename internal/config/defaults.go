package config

const (
	defaultLogDir               = "~/.local/share/shoebox/logs"
	defaultFallbackDir          = "no_metadata"
	defaultDuplicatesDir        = "Duplicates"
	defaultDuplicatePolicy      = "reroute"
	defaultJournalFile          = "journal.db"
	defaultJournalRetentionDays = 180
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Organizer: Organizer{
			FallbackDir:     defaultFallbackDir,
			DuplicatesDir:   defaultDuplicatesDir,
			DuplicatePolicy: defaultDuplicatePolicy,
		},
		Journal: Journal{
			Enabled:       true,
			RetentionDays: defaultJournalRetentionDays,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			RunSummary:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

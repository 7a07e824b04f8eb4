package commands

// CLI-specific constants
const (
	// DefaultEditorCommand is the default editor command
	DefaultEditorCommand = "vi"

	// DefaultHistoryLimit bounds 'history list' output
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit bounds 'history search' output
	DefaultHistorySearchLimit = 20
	// MaxHistoryAnalysisEntries bounds how much history 'history stats' reads
	MaxHistoryAnalysisEntries = 500
)

// Error messages
const (
	ErrConfigLoaderUnavailable = "config loader unavailable"
	ErrHistoryStoreUnavailable = "history store unavailable"
	ErrKeyRequired             = "--key is required"
	ErrQueryRequired           = "--query required"
	ErrInvalidRetainDays       = "--days must be > 0"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgNoSuggestions            = "No matching topics in history."
)

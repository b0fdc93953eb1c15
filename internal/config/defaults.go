package config

const (
	defaultDataDir        = "~/.local/share/zobioscan"
	defaultLogDir         = "~/.local/share/zobioscan/logs"
	defaultVaultTimeout   = 30
	defaultPrinterTimeout = 15
	defaultNotifyTimeout  = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Vault: Vault{
			RequestTimeout: defaultVaultTimeout,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Printer: Printer{
			RequestTimeout: defaultPrinterTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Submission:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Containers: []Container{
			{Name: "Cryobox 9x9", Rows: 9, Columns: 9},
			{Name: "Plate 8x12", Rows: 8, Columns: 12},
		},
	}
}

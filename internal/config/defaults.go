package config

// Default values for optional configuration fields.
const (
	DefaultInputFile         = "STOCK EXCEL.xlsx"
	DefaultInputSheet        = "Sheet1"
	DefaultInputColumn       = "STOCK NAME"
	DefaultOutputFile        = "todaySTOCK.xlsx"
	DefaultRawFile           = "support_resistance_data.xlsx"
	DefaultCleanedFile       = "final_support_resistance_data.xlsx"
	DefaultLookbackDays      = 365
	DefaultProximityRatio    = 0.05
	DefaultRequestsPerSecond = 2
	DefaultCron              = "0 30 16 * * 1-5"
	DefaultSQLitePath        = "data/bandwatch.db"
	DefaultLogLevel          = "info"
)

func (c *Config) applyDefaults() {
	if c.Input.File == "" {
		c.Input.File = DefaultInputFile
	}
	if c.Input.Sheet == "" {
		c.Input.Sheet = DefaultInputSheet
	}
	if c.Input.Column == "" {
		c.Input.Column = DefaultInputColumn
	}
	if c.Output.File == "" {
		c.Output.File = DefaultOutputFile
	}
	if c.Output.RawFile == "" {
		c.Output.RawFile = DefaultRawFile
	}
	if c.Output.CleanedFile == "" {
		c.Output.CleanedFile = DefaultCleanedFile
	}
	if c.History.LookbackDays == 0 {
		c.History.LookbackDays = DefaultLookbackDays
	}
	if c.Proximity.Ratio == 0 {
		c.Proximity.Ratio = DefaultProximityRatio
	}
	if c.DataSource.RequestsPerSecond == 0 {
		c.DataSource.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = DefaultCron
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = DefaultSQLitePath
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

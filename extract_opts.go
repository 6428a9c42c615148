package wdf

// ExtractOption configures ExtractAll.
type ExtractOption func(*extractConfig)

type extractConfig struct {
	directWrite  bool
	skipExisting bool
	workers      int
}

// ExtractWithDirectWrites writes each asset directly to its final path.
// By default, assets are written to a temp file and renamed into place, so
// an interrupted run never leaves a truncated file at a final path.
func ExtractWithDirectWrites(enabled bool) ExtractOption {
	return func(c *extractConfig) {
		c.directWrite = enabled
	}
}

// ExtractWithSkipExisting leaves existing output files untouched.
// By default, existing files are overwritten, which makes re-runs idempotent.
func ExtractWithSkipExisting(skip bool) ExtractOption {
	return func(c *extractConfig) {
		c.skipExisting = skip
	}
}

// ExtractWithWorkers sets the number of entities processed concurrently.
// Values < 2 process entities strictly one after another (the default).
func ExtractWithWorkers(n int) ExtractOption {
	return func(c *extractConfig) {
		c.workers = n
	}
}

package qafmt

// PrettyOpts configures human-readable output.
type PrettyOpts struct {
	Color          bool
	Width          int // maximum line width, 0 - unlimited
	Max            int // render at most Max groups, 0 - all
	ShowProperties bool
	ShowSummary    bool
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	Max            int    // cut the output, not the set
	OmitProperties bool   // drop the properties of every warning
	RunID          string // empty - a fresh id is generated
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
	RunID          string // empty - a fresh id is generated
}

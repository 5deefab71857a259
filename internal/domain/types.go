package domain

// Vector is one token's embedding, widened from the table's storage precision.
type Vector []float32

// Record is the result of transcoding a single input line.
type Record struct {
	// Line is the 1-based position of the line in the input.
	Line int64
	// Input is the original line, trimmed.
	Input string
	// Vectors holds one vector per recognised token, in token order.
	// Lengths may differ between entries.
	Vectors []Vector
	// Unknown lists tokens that had no table entry and were dropped.
	Unknown []string
}

// ReplacementRule substitutes every occurrence of Pattern with Replacement.
type ReplacementRule struct {
	Pattern     string
	Replacement string
}

// RuleSet is an ordered list of rules. Order is significant: each rule sees the
// output of the previous one.
type RuleSet []ReplacementRule

// Stage identifies a long-running step of a transcoding run.
type Stage string

const (
	StageTable Stage = "table"
	StageInput Stage = "input"
)

// ProgressObserver receives progress notifications while files are streamed.
// done and total are byte counts; total is 0 when the size is unknown.
type ProgressObserver interface {
	OnProgress(stage Stage, done, total int64)
	OnStageDone(stage Stage, lines int64)
}

// NopObserver discards all progress notifications.
type NopObserver struct{}

func (NopObserver) OnProgress(Stage, int64, int64) {}
func (NopObserver) OnStageDone(Stage, int64)       {}

// RunInfo describes a transcoding run to output storages.
type RunInfo struct {
	InputPath string
	TablePath string
	Separator string
}

package archive

// Summary contains the counters for one extraction run
type Summary struct {
	Archives int   // Archives attempted
	Files    int   // Files written
	Bytes    int64 // Bytes written
	Errors   int   // Archives (or deletions) that failed
	Warnings int   // Non-fatal problems such as RAR integrity failures
	Skipped  int   // Continuation volumes seen but not opened
}

// Outcome is the result of processing a single archive
type Outcome struct {
	Files    int
	Bytes    int64
	Warnings int
	Err      error
}

// Add folds a per-archive outcome into the summary
func (s Summary) Add(o Outcome) Summary {
	s.Archives++
	s.Files += o.Files
	s.Bytes += o.Bytes
	s.Warnings += o.Warnings
	if o.Err != nil {
		s.Errors++
	}
	return s
}

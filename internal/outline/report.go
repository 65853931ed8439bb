package outline

// GenerateReport parses each source file and renders the combined report.
// It is the reusable entry point behind the CLI: callers supply
// (path, text) pairs already filtered and ordered, and get back the full
// report text. A file that fails to parse becomes a stub line; it never
// aborts the remaining files.
func GenerateReport(files []SourceFile) string {
	parser := NewParser()
	results := make([]FileResult, len(files))
	for i, f := range files {
		fileOutline, err := parser.Parse(f.Path, f.Text)
		results[i] = FileResult{Path: f.Path, Outline: fileOutline, Err: err}
	}
	return Render(results)
}

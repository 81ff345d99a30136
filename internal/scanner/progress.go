package scanner

// ProgressReporter receives one call per ticker as it is dispatched.
// index is 1-based.
type ProgressReporter interface {
	OnProgress(ticker string, index, total int)
}

// ProgressFunc adapts a plain function to ProgressReporter.
type ProgressFunc func(ticker string, index, total int)

func (f ProgressFunc) OnProgress(ticker string, index, total int) { f(ticker, index, total) }

type noProgress struct{}

func (noProgress) OnProgress(string, int, int) {}

package split

// Progress receives one event per exported cell.
type Progress interface {
	Report(done, total int)
}

// ProgressFunc adapts a function to Progress.
type ProgressFunc func(done, total int)

func (f ProgressFunc) Report(done, total int) { f(done, total) }

type noProgress struct{}

func (noProgress) Report(int, int) {}

package export

// Dataset defines tabular export content. Rows are ordered slices so
// every renderer emits identical output for the same dataset.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

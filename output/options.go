package output

type Options struct {
	PrintRequestHeader bool
	PrintRequestBody   bool

	EnableColor bool
}

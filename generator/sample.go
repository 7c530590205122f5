package generator

// Sample is a reference generator which always asks for the same form POST.
// Options are ignored.
type Sample struct{}

func (Sample) Generate(options Options) Descriptor {
	return Descriptor{
		Method: MethodPost,
		URI:    "/foo/bar",
		Data:   "foo=bar",
	}
}

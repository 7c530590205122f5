package generator

// Static returns copies of a fixed descriptor, typically the one given on the command line.
type Static struct {
	descriptor Descriptor
}

func NewStatic(d Descriptor) *Static {
	return &Static{descriptor: copyDescriptor(d)}
}

func (s *Static) Generate(options Options) Descriptor {
	return copyDescriptor(s.descriptor)
}

func copyDescriptor(d Descriptor) Descriptor {
	if d.Header != nil {
		d.Header = d.Header.Clone()
	}
	return d
}

package layout

// Option configures rendering.
type Option func(*options)

type options struct {
	stride uint
}

func newOptions(opts []Option) options {
	o := options{stride: DefaultStride}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithStride overrides the value of the alignment column.
func WithStride(n uint) Option {
	return func(o *options) {
		o.stride = n
	}
}

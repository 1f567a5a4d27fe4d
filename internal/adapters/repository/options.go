package repository

const defaultCapacity = 64

// Option configures a MemoryStore.
type Option func(*storeOptions)

type storeOptions struct {
	capacity  int
	maxWeight int
	onChange  func(size int)
}

// WithCapacity bounds the number of stored items. The oldest item is
// evicted first. Values < 1 are ignored.
func WithCapacity(n int) Option {
	return func(o *storeOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithMaxWeight bounds the summed Weight of stored items. Oldest items are
// evicted until the total fits; a single item heavier than n is refused
// with ErrTooLarge. Values < 1 leave the weight unbounded.
func WithMaxWeight(n int) Option {
	return func(o *storeOptions) {
		if n > 0 {
			o.maxWeight = n
		}
	}
}

// WithSizeObserver registers fn to be called with the store size after every
// insert or eviction.
func WithSizeObserver(fn func(size int)) Option {
	return func(o *storeOptions) {
		o.onChange = fn
	}
}

package shogun

// defaultBufferSize is the producer read-ahead buffer used when none is
// configured, matching the in-memory construction path.
const defaultBufferSize = 1024

// defaultSeed is an arbitrary default hash seed; override via WithSeed.
const defaultSeed = 0x9e3779b97f4a7c15

// Option is a functional option for configuring hashers and pipelines.
type Option func(*config)

type config struct {
	bufferSize int
	labelled   bool
	quadratic  bool
	keepLinear bool
	algo       HashAlgorithmID
	seed       uint64
}

func defaultConfig() *config {
	return &config{
		bufferSize: defaultBufferSize,
		keepLinear: true,
		algo:       AlgoMurmur3,
		seed:       defaultSeed,
	}
}

// WithBufferSize sets the number of examples the producer may read ahead
// of the consumer. Ignored by NewHasher.
func WithBufferSize(n int) Option {
	return func(c *config) {
		c.bufferSize = n
	}
}

// WithLabels declares that the source supplies a label with every example.
// Ignored by NewHasher.
func WithLabels() Option {
	return func(c *config) {
		c.labelled = true
	}
}

// WithQuadratic enables second-order interaction terms. keepLinearTerms
// controls whether the first-order terms are kept alongside the synthesized
// pair terms or dropped entirely.
func WithQuadratic(keepLinearTerms bool) Option {
	return func(c *config) {
		c.quadratic = true
		c.keepLinear = keepLinearTerms
	}
}

// WithHashAlgorithm selects the hash function used to fold feature indices.
func WithHashAlgorithm(a HashAlgorithmID) Option {
	return func(c *config) {
		c.algo = a
	}
}

// WithSeed sets the hash seed. Pipelines must share a seed for their hashed
// vectors to be comparable.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

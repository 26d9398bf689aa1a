package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	params GenerateParams
}

// GenerateParams carries the per-invocation inputs of a generate run.
// Zero values defer to the configuration, except Density: 0 is a meaningful
// density (floor-only graph), so DensitySet records whether the caller
// provided one.
type GenerateParams struct {
	MainTopic  string
	NoteCount  int
	Density    float64
	DensitySet bool
	Seed       int64
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithGenerateParams sets the parameters of a generate run.
func WithGenerateParams(p GenerateParams) Option {
	return func(a *application) {
		a.params = p
	}
}

package chat

// CallOption is a function that configures a CallOptions.
type CallOption func(*CallOptions)

// CallOptions is a set of options for a single completion call.
// Not all providers support all options.
type CallOptions struct {
	// Model is the model to use, overriding the provider default.
	Model string
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int
	// Temperature is the temperature for sampling, between 0 and 1.
	Temperature float64
	// TemperatureSet indicates that Temperature was set explicitly;
	// a zero temperature is meaningful for deterministic decisions.
	TemperatureSet bool
	// StopWords is a list of words to stop on.
	StopWords []string
}

// WithModel specifies which model to use.
func WithModel(model string) CallOption {
	return func(o *CallOptions) {
		o.Model = model
	}
}

// WithMaxTokens specifies the max number of tokens to generate.
func WithMaxTokens(maxTokens int) CallOption {
	return func(o *CallOptions) {
		o.MaxTokens = maxTokens
	}
}

// WithTemperature specifies the model temperature.
func WithTemperature(temperature float64) CallOption {
	return func(o *CallOptions) {
		o.Temperature = temperature
		o.TemperatureSet = true
	}
}

// WithStopWords specifies a list of words to stop generation on.
func WithStopWords(stopWords []string) CallOption {
	return func(o *CallOptions) {
		o.StopWords = stopWords
	}
}

// ApplyOptions folds the given options into a CallOptions value.
func ApplyOptions(options ...CallOption) CallOptions {
	opts := CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}

package manager

import "assistd/internal/llm"

// Defaults applied when corresponding HandlerConfig fields are unset. They
// select the deterministic decoding profile: greedy decode, fixed token
// budget, prompt truncation at 512 tokens. Sampling parameters only take
// effect when DoSample is enabled explicitly.
const (
	defaultMaxNewTokens = 128
	defaultTemperature  = 0.5
	defaultTopP         = 0.9
	defaultTruncateAt   = 512
)

// HandlerConfig encapsulates the generation tunables for ModelHandler.
type HandlerConfig struct {
	MaxNewTokens int
	Temperature  float32
	TopP         float32
	DoSample     bool
	TruncateAt   int
}

func (c HandlerConfig) withDefaults() HandlerConfig {
	if c.MaxNewTokens <= 0 {
		c.MaxNewTokens = defaultMaxNewTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = defaultTemperature
	}
	if c.TopP <= 0 {
		c.TopP = defaultTopP
	}
	if c.TruncateAt <= 0 {
		c.TruncateAt = defaultTruncateAt
	}
	return c
}

func (c HandlerConfig) genParams() llm.GenParams {
	return llm.GenParams{
		MaxNewTokens: c.MaxNewTokens,
		Temperature:  c.Temperature,
		TopP:         c.TopP,
		DoSample:     c.DoSample,
		TruncateAt:   c.TruncateAt,
	}
}

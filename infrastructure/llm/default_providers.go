package llm

// DefaultMaxCompletionTokens caps answer length for the default roster.
const DefaultMaxCompletionTokens = 1000

// DefaultProviderSpecs is the standard arena roster. Third-party
// providers with OpenAI-compatible endpoints are reached through the
// openai kind with a BaseURL override.
var DefaultProviderSpecs = []ProviderSpec{
	{
		Name:      "GPT-5.2",
		Model:     "gpt-5.2",
		Kind:      "openai",
		EnvVar:    "OPENAI_API_KEY",
		MaxTokens: DefaultMaxCompletionTokens,
	},
	{
		Name:      "GPT-5-mini",
		Model:     "gpt-5-mini",
		Kind:      "openai",
		EnvVar:    "OPENAI_API_KEY",
		MaxTokens: DefaultMaxCompletionTokens,
	},
	{
		Name:      "Claude Opus 4.6",
		Model:     "claude-opus-4-6",
		Kind:      "anthropic",
		EnvVar:    "ANTHROPIC_API_KEY",
		Optional:  true,
		MaxTokens: DefaultMaxCompletionTokens,
	},
	{
		Name:      "Gemini 3.0 Flash",
		Model:     "gemini-3.0-flash",
		Kind:      "openai",
		EnvVar:    "GOOGLE_API_KEY",
		BaseURL:   "https://generativelanguage.googleapis.com/v1beta/openai/",
		Optional:  true,
		MaxTokens: DefaultMaxCompletionTokens,
	},
	{
		Name:      "DeepSeek Chat",
		Model:     "deepseek-chat",
		Kind:      "openai",
		EnvVar:    "DEEPSEEK_API_KEY",
		BaseURL:   "https://api.deepseek.com/v1",
		Optional:  true,
		MaxTokens: DefaultMaxCompletionTokens,
	},
	{
		Name:      "Groq GPT-OSS-120B",
		Model:     "openai/gpt-oss-120b",
		Kind:      "openai",
		EnvVar:    "GROQ_API_KEY",
		BaseURL:   "https://api.groq.com/openai/v1",
		Optional:  true,
		MaxTokens: DefaultMaxCompletionTokens,
	},
}

package config

const (
	defaultWatchDir                = "~/transcripts"
	defaultOutputDir               = "~/transcripts/cleaned"
	defaultLogDir                  = "~/.local/share/scrub/logs"
	defaultDataDir                 = "~/.local/share/scrub"
	defaultMaxGapSeconds           = 5.0
	defaultMaxTokens               = 2000
	defaultCharsPerToken           = 4
	defaultStatementOverheadTokens = 8
	defaultCleaningProvider        = "openai"
	defaultCleaningConcurrency     = 2
	defaultLLMBaseURL              = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel                = "google/gemini-3-flash-preview"
	defaultLLMTitle                = "Scrub Transcript Cleaner"
	defaultLLMTimeoutSeconds       = 120
	defaultGeminiModel             = "gemini-2.5-flash"
	defaultExportFormat            = "markdown"
	defaultNotifyRequestTimeout    = 10
	defaultWatchSettleDelayMS      = 500
	defaultWatchMaxConcurrent      = 2
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
	defaultLogRetentionDays        = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WatchDir:  defaultWatchDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			DataDir:   defaultDataDir,
		},
		Grouping: Grouping{
			MaxGapSeconds: defaultMaxGapSeconds,
		},
		Chunking: Chunking{
			MaxTokens:               defaultMaxTokens,
			CharsPerToken:           defaultCharsPerToken,
			StatementOverheadTokens: defaultStatementOverheadTokens,
		},
		Cleaning: Cleaning{
			Provider:    defaultCleaningProvider,
			Concurrency: defaultCleaningConcurrency,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Gemini: Gemini{
			Model: defaultGeminiModel,
		},
		Export: Export{
			Format:          defaultExportFormat,
			AnnotateRemoved: true,
			Progressive:     true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Watch: Watch{
			Extensions:    []string{".vtt"},
			SettleDelayMS: defaultWatchSettleDelayMS,
			MaxConcurrent: defaultWatchMaxConcurrent,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

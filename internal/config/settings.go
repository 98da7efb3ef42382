package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/smartshop/internal/common"
	"github.com/Veraticus/smartshop/internal/llm"
	"github.com/spf13/viper"
)

// Viper keys.
const (
	KeyDatabasePath      = "database.path"
	KeyUserID            = "user.id"
	KeyLogLevel          = "logging.level"
	KeyLogFormat         = "logging.format"
	KeyOCRLanguage       = "ocr.language"
	KeyOCRTessdata       = "ocr.tessdata"
	KeyOCRPreprocess     = "ocr.preprocess"
	KeyLLMProvider       = "llm.provider"
	KeyLLMAPIKey         = "llm.api_key"
	KeyLLMOpenAIKey      = "llm.openai_api_key"
	KeyLLMGeminiKey      = "llm.gemini_api_key"
	KeyLLMModel          = "llm.model"
	KeyLLMBaseURL        = "llm.base_url"
	KeyLLMRateLimit      = "llm.rate_limit"
	KeyLLMTimeout        = "llm.timeout"
	KeyCacheTTL          = "suggestions.cache_ttl"
	KeySuggestionHistory = "suggestions.history_days"
)

// EnvPrefix namespaces environment overrides, e.g. SMARTSHOP_LLM_PROVIDER.
const EnvPrefix = "SMARTSHOP"

// Settings is the resolved application configuration.
type Settings struct {
	DatabasePath string
	LogLevel     string
	LogFormat    string
	OCR          OCRSettings
	LLM          llm.Config
	CacheTTL     time.Duration
	HistoryDays  int
	UserID       int64
}

// OCRSettings configures text recognition.
type OCRSettings struct {
	Tessdata   string
	Languages  []string
	Preprocess bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyUserID, 1)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyOCRLanguage, "eng")
	v.SetDefault(KeyOCRPreprocess, true)
	v.SetDefault(KeyLLMProvider, llm.ProviderAuto)
	v.SetDefault(KeyLLMRateLimit, llm.DefaultRateLimit)
	v.SetDefault(KeyLLMTimeout, llm.DefaultTimeout)
	v.SetDefault(KeyCacheTTL, 30*time.Minute)
	v.SetDefault(KeySuggestionHistory, 365)
}

// BindEnv makes every key overridable from SMARTSHOP_ prefixed variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads Settings from v. Defaults must already be registered.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		UserID:       v.GetInt64(KeyUserID),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		OCR: OCRSettings{
			Tessdata:   ExpandPath(v.GetString(KeyOCRTessdata)),
			Languages:  splitLanguages(v.GetString(KeyOCRLanguage)),
			Preprocess: v.GetBool(KeyOCRPreprocess),
		},
		LLM: llm.Config{
			Provider:  strings.ToLower(strings.TrimSpace(v.GetString(KeyLLMProvider))),
			APIKey:    v.GetString(KeyLLMAPIKey),
			OpenAIKey: v.GetString(KeyLLMOpenAIKey),
			GeminiKey: v.GetString(KeyLLMGeminiKey),
			Model:     v.GetString(KeyLLMModel),
			BaseURL:   v.GetString(KeyLLMBaseURL),
			RateLimit: v.GetInt(KeyLLMRateLimit),
			Timeout:   v.GetDuration(KeyLLMTimeout),
		},
		CacheTTL:    v.GetDuration(KeyCacheTTL),
		HistoryDays: v.GetInt(KeySuggestionHistory),
	}

	if s.DatabasePath == "" {
		return s, fmt.Errorf("%w: %s is empty", common.ErrMissingConfig, KeyDatabasePath)
	}
	if s.UserID <= 0 {
		return s, fmt.Errorf("%w: %s must be positive, got %d", common.ErrInvalidConfig, KeyUserID, s.UserID)
	}
	if s.CacheTTL <= 0 {
		return s, fmt.Errorf("%w: %s must be positive", common.ErrInvalidConfig, KeyCacheTTL)
	}
	if s.HistoryDays <= 0 {
		return s, fmt.Errorf("%w: %s must be positive", common.ErrInvalidConfig, KeySuggestionHistory)
	}
	if s.LLM.RateLimit < 0 {
		return s, fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, KeyLLMRateLimit)
	}
	switch s.LLM.Provider {
	case "", llm.ProviderAuto, llm.ProviderOpenAI, llm.ProviderGemini, llm.ProviderNone:
	default:
		return s, fmt.Errorf("%w: unknown %s %q", common.ErrInvalidConfig, KeyLLMProvider, s.LLM.Provider)
	}
	return s, nil
}

// splitLanguages accepts "eng+deu" or "eng,deu".
func splitLanguages(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return []string{"eng"}
	}
	return fields
}

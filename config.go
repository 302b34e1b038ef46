package portfolio

import "github.com/goliatone/go-portfolio/internal/runtimeconfig"

var (
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrContentRootRequired    = runtimeconfig.ErrContentRootRequired
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrGitHubTimeoutInvalid   = runtimeconfig.ErrGitHubTimeoutInvalid
)

type (
	Config        = runtimeconfig.Config
	StorageConfig = runtimeconfig.StorageConfig
	ContentConfig = runtimeconfig.ContentConfig
	GitHubConfig  = runtimeconfig.GitHubConfig
	CacheConfig   = runtimeconfig.CacheConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

package config

import "github.com/spf13/viper"

const (
	FormatGzip = "gzip"
	FormatZstd = "zstd"
)

const (
	DefaultWorkDir          = "/tmp/velarchiver"
	DefaultLogPrefix        = "archival-logs"
	DefaultCompressionLevel = 6
	DefaultThresholdMB      = 25
	DefaultPartSizeMB       = 5
	DefaultConcurrency      = 10
)

type Config struct {
	S3            *S3Config            `mapstructure:"s3" yaml:"s3"`
	Archive       *ArchiveConfig       `mapstructure:"archive" yaml:"archive,omitempty"`
	Transfer      *TransferConfig      `mapstructure:"transfer" yaml:"transfer,omitempty"`
	Run           *RunConfig           `mapstructure:"run" yaml:"run,omitempty"`
	Lock          *LockConfig          `mapstructure:"lock" yaml:"lock,omitempty"`
	Notifications *NotificationsConfig `mapstructure:"notifications" yaml:"notifications,omitempty"`
}

type S3Config struct {
	Profile   string     `mapstructure:"profile" yaml:"profile,omitempty"`
	Region    string     `mapstructure:"region" yaml:"region,omitempty"`
	Endpoint  string     `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	AccessKey string     `mapstructure:"access_key" yaml:"access_key,omitempty"`
	SecretKey string     `mapstructure:"secret_key" yaml:"secret_key,omitempty"`
	Bucket    string     `mapstructure:"bucket" yaml:"bucket"`
	PathStyle bool       `mapstructure:"path_style" yaml:"path_style,omitempty"`
	TLS       *TLSConfig `mapstructure:"tls" yaml:"tls,omitempty"`
}

type TLSConfig struct {
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify,omitempty"`
}

type ArchiveConfig struct {
	Format           string `mapstructure:"format" yaml:"format,omitempty"`
	CompressionLevel int    `mapstructure:"compression_level" yaml:"compression_level,omitempty"`
	WorkDir          string `mapstructure:"work_dir" yaml:"work_dir,omitempty"`
}

type TransferConfig struct {
	MultipartThresholdMB int `mapstructure:"multipart_threshold_mb" yaml:"multipart_threshold_mb,omitempty"`
	PartSizeMB           int `mapstructure:"part_size_mb" yaml:"part_size_mb,omitempty"`
	Concurrency          int `mapstructure:"concurrency" yaml:"concurrency,omitempty"`
}

type RunConfig struct {
	IgnoreSuffixes []string    `mapstructure:"ignore_suffixes" yaml:"ignore_suffixes,omitempty"`
	LogPrefix      string      `mapstructure:"log_prefix" yaml:"log_prefix,omitempty"`
	Tags           []TagConfig `mapstructure:"tags" yaml:"tags,omitempty"`
}

// TagConfig is one object tag. Tags are a list, not a map, because the
// tagging call sends them in declaration order.
type TagConfig struct {
	Key   string `mapstructure:"key" yaml:"key"`
	Value string `mapstructure:"value" yaml:"value"`
}

type LockConfig struct {
	Dir        string `mapstructure:"dir" yaml:"dir,omitempty"`
	TTLMinutes int    `mapstructure:"ttl_minutes" yaml:"ttl_minutes,omitempty"`
}

type NotificationsConfig struct {
	Discord *DiscordConfig `mapstructure:"discord" yaml:"discord,omitempty"`
}

type DiscordConfig struct {
	Enabled        bool          `mapstructure:"enabled" yaml:"enabled"`
	WebhookURL     string        `mapstructure:"webhook_url" yaml:"webhook_url,omitempty"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds" yaml:"timeout_seconds,omitempty"`
	Events         []string      `mapstructure:"events" yaml:"events,omitempty"`
	Retry          *DiscordRetry `mapstructure:"retry" yaml:"retry,omitempty"`
}

type DiscordRetry struct {
	Attempts  int `mapstructure:"attempts" yaml:"attempts,omitempty"`
	BackoffMs int `mapstructure:"backoff_ms" yaml:"backoff_ms,omitempty"`
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Accessors below fill in defaults for optional sections so callers never
// branch on nil section pointers.

func WorkDir(cfg *Config) string {
	if cfg != nil && cfg.Archive != nil && cfg.Archive.WorkDir != "" {
		return cfg.Archive.WorkDir
	}
	return DefaultWorkDir
}

func ArchiveFormat(cfg *Config) string {
	if cfg != nil && cfg.Archive != nil && cfg.Archive.Format != "" {
		return cfg.Archive.Format
	}
	return FormatGzip
}

func CompressionLevel(cfg *Config) int {
	if cfg != nil && cfg.Archive != nil && cfg.Archive.CompressionLevel > 0 {
		return cfg.Archive.CompressionLevel
	}
	return DefaultCompressionLevel
}

func MultipartThresholdMB(cfg *Config) int {
	if cfg != nil && cfg.Transfer != nil && cfg.Transfer.MultipartThresholdMB > 0 {
		return cfg.Transfer.MultipartThresholdMB
	}
	return DefaultThresholdMB
}

func PartSizeMB(cfg *Config) int {
	if cfg != nil && cfg.Transfer != nil && cfg.Transfer.PartSizeMB > 0 {
		return cfg.Transfer.PartSizeMB
	}
	return DefaultPartSizeMB
}

func Concurrency(cfg *Config) int {
	if cfg != nil && cfg.Transfer != nil && cfg.Transfer.Concurrency > 0 {
		return cfg.Transfer.Concurrency
	}
	return DefaultConcurrency
}

func LogPrefix(cfg *Config) string {
	if cfg != nil && cfg.Run != nil && cfg.Run.LogPrefix != "" {
		return NormalizePrefix(cfg.Run.LogPrefix)
	}
	return DefaultLogPrefix
}

// DefaultIgnoreSuffixes keeps previously uploaded archives out of the next
// mirror pass. An explicitly empty ignore_suffixes list overrides it.
var DefaultIgnoreSuffixes = []string{".tar.gz", ".tar.zst"}

func IgnoreSuffixes(cfg *Config) []string {
	if cfg != nil && cfg.Run != nil && cfg.Run.IgnoreSuffixes != nil {
		return cfg.Run.IgnoreSuffixes
	}
	return DefaultIgnoreSuffixes
}

func LockDir(cfg *Config) string {
	if cfg != nil && cfg.Lock != nil {
		return cfg.Lock.Dir
	}
	return ""
}

func LockTTLMinutes(cfg *Config) int {
	if cfg != nil && cfg.Lock != nil {
		return cfg.Lock.TTLMinutes
	}
	return 0
}

func Tags(cfg *Config) []TagConfig {
	if cfg != nil && cfg.Run != nil && len(cfg.Run.Tags) > 0 {
		return cfg.Run.Tags
	}
	return []TagConfig{{Key: "ArchiveStatus", Value: "ReadyForGlacier"}}
}

func NotificationsEnabled(n *NotificationsConfig) bool {
	return n != nil && n.Discord != nil && n.Discord.Enabled
}

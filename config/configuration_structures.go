package config

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

type JWTConfig struct {
	SecretKey      string `yaml:"secret_key"`
	AccessTokenTTL string `yaml:"access_token_ttl"`
}

// ReaperConfig : настройки фоновой чистки истёкших grant и share-ссылок
// Interval задаётся строкой в формате time.ParseDuration, например "10m"
type ReaperConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval"`
}

type TTL struct {
	CacheSeconds int `yaml:"cache_seconds"`
}

type UploadConfig struct {
	MaxSizeMB int64 `yaml:"max_size_mb"`
}

package config

import "github.com/spf13/viper"

// Bounds is an inclusive [Min, Max] range for a validated integer field.
type Bounds struct {
	Min int
	Max int
}

// Contains reports whether v falls within the bounds.
func (b Bounds) Contains(v int) bool {
	return v >= b.Min && v <= b.Max
}

// Config holds every runtime setting the application needs. It is built
// once at startup and passed by reference into constructors; nothing reads
// viper after Load returns.
type Config struct {
	AppPort     string
	DatabaseDSN string
	JWTSecret   string
	RabbitMQURL string
	MediaDir    string
	DataDir     string
	PageSize    int

	Amount      Bounds
	CookingTime Bounds
}

// Load reads configuration from environment variables (with defaults) and
// returns an immutable snapshot.
func Load() *Config {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("JWT_SECRET", "foodgram_dev_secret")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("MEDIA_DIR", "media")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("PAGE_SIZE", 6)
	v.SetDefault("MIN_AMOUNT", 1)
	v.SetDefault("MAX_AMOUNT", 32000)
	v.SetDefault("MIN_COOKING_TIME", 1)
	v.SetDefault("MAX_COOKING_TIME", 32000)
	v.AutomaticEnv()

	return &Config{
		AppPort:     v.GetString("APP_PORT"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		MediaDir:    v.GetString("MEDIA_DIR"),
		DataDir:     v.GetString("DATA_DIR"),
		PageSize:    v.GetInt("PAGE_SIZE"),
		Amount: Bounds{
			Min: v.GetInt("MIN_AMOUNT"),
			Max: v.GetInt("MAX_AMOUNT"),
		},
		CookingTime: Bounds{
			Min: v.GetInt("MIN_COOKING_TIME"),
			Max: v.GetInt("MAX_COOKING_TIME"),
		},
	}
}

package configs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	App          `mapstructure:"app"`
	OpenAI       `mapstructure:"openai"`
	Session      `mapstructure:"session"`
	Support      `mapstructure:"support"`
	SMTP         `mapstructure:"smtp"`
	Line         `mapstructure:"line"`
	Postgres     `mapstructure:"postgres"`
	RateLimit    `mapstructure:"rate_limit"`
	Catalog      `mapstructure:"catalog"`
	Notification `mapstructure:"notification"`
}

// App struct
type App struct {
	Debug     bool   `mapstructure:"debug"`
	Env       string `mapstructure:"env"`
	Port      string `mapstructure:"port"`
	PublicDir string `mapstructure:"public_dir"`
}

// OpenAI struct - completion endpoint settings
type OpenAI struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Timeout     int     `mapstructure:"timeout"` // seconds
}

// Session struct
type Session struct {
	MaxTurns int `mapstructure:"max_turns"`
}

// Support struct - support mailbox and trigger phrases
type Support struct {
	Email          string   `mapstructure:"email"`
	EmailPassword  string   `mapstructure:"email_password"`
	Recipient      string   `mapstructure:"recipient"`
	TriggerPhrases []string `mapstructure:"trigger_phrases"`
	Acknowledgment string   `mapstructure:"acknowledgment"`
}

// SMTP struct
type SMTP struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Line struct
type Line struct {
	ChannelSecret string `mapstructure:"channel_secret"`
	ChannelToken  string `mapstructure:"channel_token"`
	SupportUserID string `mapstructure:"support_user_id"`
}

// Postgres struct
type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"database"`
	SSLMode  bool   `mapstructure:"sslmode"`
}

// RateLimit struct
type RateLimit struct {
	Max    int `mapstructure:"max"`
	Window int `mapstructure:"window"` // seconds
}

// Catalog struct - static intent and business profile files
type Catalog struct {
	IntentsFile string `mapstructure:"intents_file"`
	ProfileFile string `mapstructure:"profile_file"`
}

// Notification struct
type Notification struct {
	Timeout int `mapstructure:"timeout"` // seconds
}

var config Config

// InitViper func
func InitViper(path, env string) {
	getConfig(path, env)
}

// GetViper func
func GetViper() *Config {
	return &config
}

func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.port", "3000")
	viper.SetDefault("app.public_dir", "./public")

	viper.SetDefault("openai.api_key", "")
	viper.SetDefault("openai.base_url", "https://api.openai.com")
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("openai.temperature", 0.2)
	viper.SetDefault("openai.max_tokens", 400)
	viper.SetDefault("openai.timeout", 60)

	viper.SetDefault("session.max_turns", 10)

	viper.SetDefault("support.email", "")
	viper.SetDefault("support.email_password", "")
	viper.SetDefault("support.recipient", "")
	viper.SetDefault("support.trigger_phrases", []string{"send as email", "send as mail", "project"})
	viper.SetDefault("support.acknowledgment", "I have sent your message to our support team. They will contact you soon!")

	viper.SetDefault("smtp.host", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 587)

	viper.SetDefault("line.channel_secret", "")
	viper.SetDefault("line.channel_token", "")
	viper.SetDefault("line.support_user_id", "")

	viper.SetDefault("postgres.host", "")
	viper.SetDefault("postgres.port", "")
	viper.SetDefault("postgres.username", "")
	viper.SetDefault("postgres.password", "")
	viper.SetDefault("postgres.database", "")
	viper.SetDefault("postgres.sslmode", false)

	viper.SetDefault("rate_limit.max", 120)
	viper.SetDefault("rate_limit.window", 15*60)

	viper.SetDefault("catalog.intents_file", "./configs/intents.json")
	viper.SetDefault("catalog.profile_file", "./configs/company-data.json")

	viper.SetDefault("notification.timeout", 30)
}

func getConfig(path, env string) {
	setDefaults()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(err)
		}
		logrus.Warnf("No config file found in %s, using defaults and environment", path)
	}
	if env != "" {
		overlay := filepath.Join(path, "config."+env+".yaml")
		if _, statErr := os.Stat(overlay); statErr == nil {
			viper.SetConfigFile(overlay)
			if err := viper.MergeInConfig(); err != nil {
				panic(err)
			}
		}
	}
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		logrus.Infoln("Config file has changed: ", e.Name)
	})
	config = Config{}
	err = viper.Unmarshal(&config)
	if err != nil {
		logrus.Fatalln(err)
	}
}

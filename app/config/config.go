package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const (
	defaultPath = "config.yaml"
	pathEnv     = "CASEBOT_CONFIG"
)

type Config struct {
	Log      Log      `yaml:"log"`
	MyCase   MyCase   `yaml:"mycase"`
	Mongo    Mongo    `yaml:"mongo"`
	Journal  Journal  `yaml:"journal"`
	Server   Server   `yaml:"server"`
	Channel  Channel  `yaml:"channel"`
	Dialogue Dialogue `yaml:"dialogue"`
}

type Log struct {
	// Minimum level: debug, info, warn or error
	Level string `yaml:"level" example:"info" validate:"oneof=debug info warn error"`
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

type MyCase struct {
	// Base url of the MyCase REST API
	APIURL string `yaml:"api_url" example:"https://api.mycase.utcourts.gov/v1" validate:"required,url"`
	// Base url of the MyCase web application, used for profile and payment links
	WebURL string `yaml:"web_url" example:"https://mycase.utcourts.gov" validate:"required,url"`
	// Upper bound for a single upstream call
	Timeout time.Duration `yaml:"timeout" example:"15s"`
	// Pause before the single retry of a transient failure
	RetryDelay time.Duration `yaml:"retry_delay" example:"500ms"`
}

type Mongo struct {
	// Connection string; leave empty to write analytics into the journal file instead
	URL string `yaml:"url" example:"mongodb://localhost:27017"`
	// Mongo username
	User string `yaml:"user" example:"casebot"`
	// Mongo password
	Pass string `yaml:"pass"`
	// Authentication database
	AuthSource string `yaml:"auth_source" example:"admin"`
	// Database name
	Database string `yaml:"database" example:"casebot" validate:"required"`
	// Collection for session analytics
	AnalyticsCollection string `yaml:"analytics_collection" example:"analytics" validate:"required"`
	// Collection for user feedback
	FeedbackCollection string `yaml:"feedback_collection" example:"feedback" validate:"required"`
}

type Journal struct {
	// JSON-lines file used when mongo is not configured
	Path string `yaml:"path" example:"data/journal.jsonl" validate:"required"`
}

type Server struct {
	// Listen address of the action webhook
	Addr string `yaml:"addr" example:":5055" validate:"required"`
}

type Channel struct {
	// Listen address of the socket transport
	Addr string `yaml:"addr" example:":5005" validate:"required"`
	// Path of the websocket endpoint
	Path string `yaml:"path" example:"/socket" validate:"required,startswith=/"`
	// Inbound event carrying user messages
	UserMessageEvent string `yaml:"user_message_evt" example:"user_uttered" validate:"required"`
	// Outbound event carrying bot messages
	BotMessageEvent string `yaml:"bot_message_evt" example:"bot_uttered" validate:"required"`
	// Keep conversations keyed by session id instead of by connection
	SessionPersistence bool `yaml:"session_persistence" example:"true"`
	// Secret used to verify access tokens
	JWTKey string `yaml:"jwt_key" validate:"required"`
	// Signing algorithm of access tokens
	JWTMethod string `yaml:"jwt_method" example:"HS256" validate:"required"`
}

type Dialogue struct {
	// REST input webhook of the dialogue framework
	URL string `yaml:"url" example:"http://localhost:5005/webhooks/rest/webhook" validate:"required,url"`
	// Upper bound for one turn
	Timeout time.Duration `yaml:"timeout" example:"30s"`
}

func Load() (*Config, error) {
	path := os.Getenv(pathEnv)
	if path == "" {
		path = defaultPath
	}

	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	var result Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	applyDefaults(&result)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.MyCase.Timeout == 0 {
		cfg.MyCase.Timeout = 15 * time.Second
	}
	if cfg.MyCase.RetryDelay == 0 {
		cfg.MyCase.RetryDelay = 500 * time.Millisecond
	}
	if cfg.Mongo.AuthSource == "" {
		cfg.Mongo.AuthSource = "admin"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "casebot"
	}
	if cfg.Mongo.AnalyticsCollection == "" {
		cfg.Mongo.AnalyticsCollection = "analytics"
	}
	if cfg.Mongo.FeedbackCollection == "" {
		cfg.Mongo.FeedbackCollection = "feedback"
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = "data/journal.jsonl"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5055"
	}
	if cfg.Channel.Addr == "" {
		cfg.Channel.Addr = ":5005"
	}
	if cfg.Channel.Path == "" {
		cfg.Channel.Path = "/socket"
	}
	if cfg.Channel.UserMessageEvent == "" {
		cfg.Channel.UserMessageEvent = "user_uttered"
	}
	if cfg.Channel.BotMessageEvent == "" {
		cfg.Channel.BotMessageEvent = "bot_uttered"
	}
	if cfg.Channel.JWTMethod == "" {
		cfg.Channel.JWTMethod = "HS256"
	}
	if cfg.Dialogue.Timeout == 0 {
		cfg.Dialogue.Timeout = 30 * time.Second
	}
}

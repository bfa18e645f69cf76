package core

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Protocol families the client can speak.
const (
	ProtocolEAthena  = "eathena"
	ProtocolManaserv = "manaserv"
)

// Config contains all of the configuration options of the client.
type Config struct {
	// Protocol family of the server: eathena or manaserv.
	Protocol string `mapstructure:"protocol"`

	LoginServer struct {
		// Hostname or IP address of the login (eathena) or account (manaserv) server.
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"login_server"`

	Account struct {
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		// Index of the world to join from the list the login server sends.
		World int `mapstructure:"world"`
		// Character slot to play.
		CharacterSlot int `mapstructure:"character_slot"`
	} `mapstructure:"account"`

	Network struct {
		// How long a connection may stay in the connecting state.
		ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
		// Size of a single read from a server.
		ReadBufferSize int `mapstructure:"read_buffer_size"`
		// How often messages are dispatched and flushed.
		TickInterval time.Duration `mapstructure:"tick_interval"`
	} `mapstructure:"network"`

	Logging struct {
		// Full path to file to which logs will be written. Blank will write to stdout.
		LogFilePath string `mapstructure:"log_file_path"`
		// Minimum level of a log required to be written. Options: debug, info, warn, error
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"logging"`

	ChatLog struct {
		// Persist chat lines to a database.
		Enabled bool `mapstructure:"enabled"`
		// sqlite or postgres.
		Engine string `mapstructure:"engine"`
		// Database file used by the sqlite engine.
		Filename string `mapstructure:"filename"`
		// Connection string used by the postgres engine.
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"chat_log"`

	Debugging struct {
		// Dump every message sent and received at debug level.
		PacketLoggingEnabled bool `mapstructure:"packet_logging_enabled"`
	} `mapstructure:"debugging"`
}

const envVarPrefix = "MANA"

func setDefaults(v *viper.Viper) {
	v.SetDefault("protocol", ProtocolEAthena)
	v.SetDefault("login_server.host", "127.0.0.1")
	v.SetDefault("login_server.port", 6901)
	v.SetDefault("account.world", 0)
	v.SetDefault("account.character_slot", 0)
	v.SetDefault("network.connect_timeout", 10*time.Second)
	v.SetDefault("network.read_buffer_size", 64*1024)
	v.SetDefault("network.tick_interval", 10*time.Millisecond)
	v.SetDefault("logging.log_level", "info")
	v.SetDefault("logging.log_file_path", "")
	v.SetDefault("chat_log.enabled", false)
	v.SetDefault("chat_log.engine", "sqlite")
	v.SetDefault("chat_log.filename", "chatlog.db")
	v.SetDefault("chat_log.dsn", "")
	v.SetDefault("debugging.packet_logging_enabled", false)
}

// LoadConfig reads config.yaml from configPath. Every option can be
// overridden from the environment: chat_log.engine is MANA_CHAT_LOG_ENGINE.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(configPath)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envVarPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("no config file in path %s", configPath)
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, login_server.host can be set using: MANA_LOGIN_SERVER_HOST
	for _, k := range v.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := v.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			return nil, fmt.Errorf("error binding %s to %s: %w", k, envVarPrefix+"_"+envVar, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config object: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the options that have no usable default.
func (c *Config) Validate() error {
	switch c.Protocol {
	case ProtocolEAthena, ProtocolManaserv:
	default:
		return fmt.Errorf("unknown protocol %q", c.Protocol)
	}
	if c.LoginServer.Host == "" {
		return errors.New("login_server.host is required")
	}
	if c.LoginServer.Port <= 0 || c.LoginServer.Port > 65535 {
		return fmt.Errorf("invalid login_server.port %d", c.LoginServer.Port)
	}
	if c.Account.CharacterSlot < 0 {
		return fmt.Errorf("invalid account.character_slot %d", c.Account.CharacterSlot)
	}
	if c.ChatLog.Enabled {
		switch c.ChatLog.Engine {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("unknown chat_log.engine %q", c.ChatLog.Engine)
		}
	}
	return nil
}

// LoginAddress returns the host:port of the login server.
func (c *Config) LoginAddress() string {
	return net.JoinHostPort(c.LoginServer.Host, strconv.Itoa(c.LoginServer.Port))
}

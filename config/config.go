package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type GameConfig struct {
	// TotalGameTime is the countdown every player starts with, in seconds.
	TotalGameTime int           `mapstructure:"total_game_time"`
	TickInterval  time.Duration `mapstructure:"tick_interval"`
}

type DatabaseConfig struct {
	Mongo MongoConfig `mapstructure:"mongo"`
}

type MongoConfig struct {
	URI                   string `mapstructure:"uri"`
	Database              string `mapstructure:"database"`
	QuestionsCollection   string `mapstructure:"questions_collection"`
	LeaderboardCollection string `mapstructure:"leaderboard_collection"`
}

type AdminConfig struct {
	Password string `mapstructure:"password"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":5000")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("game.total_game_time", 120)
	viper.SetDefault("game.tick_interval", time.Second)
	viper.SetDefault("database.mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.mongo.database", "testDB")
	viper.SetDefault("database.mongo.questions_collection", "questions")
	viper.SetDefault("database.mongo.leaderboard_collection", "leaderboard")

	// The original deployment configured these through the environment.
	viper.BindEnv("database.mongo.uri", "DB_URL")
	viper.BindEnv("admin.password", "ADMIN_PASS")

	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		// A missing config file is fine, env vars and defaults cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}

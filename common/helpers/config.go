package helpers

import (
	"errors"
	"gopkg.in/yaml.v2"
	"io/ioutil"
	"log"
	"os"
)

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DBNum    int    `yaml:"dbNum"`
}

type SteamConfig struct {
	ApiKey  string `yaml:"apikey"`
	SteamId string `yaml:"steamid"`
}

type ServerConfig struct {
	ListenAddress string `yaml:"listen"`
	StaticPath    string `yaml:"staticpath"`
}

type Config struct {
	Redis   RedisConfig  `yaml:"redis"`
	Steam   SteamConfig  `yaml:"steam"`
	Server  ServerConfig `yaml:"server"`
	MaxJobs int          `yaml:"maxjobs"`
}

/**
fill in anything that was left out of the config file
*/
func (c *Config) applyDefaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":9000"
	}
	if c.Server.StaticPath == "" {
		c.Server.StaticPath = "public"
	}
	if c.MaxJobs <= 0 {
		c.MaxJobs = 1
	}
}

func (c *Config) Validate() error {
	if c.Redis.Address == "" {
		return errors.New("redis.address must be set")
	}
	if c.Steam.ApiKey == "" || c.Steam.SteamId == "" {
		return errors.New("steam.apikey and steam.steamid must be set to import Steam games")
	}
	return nil
}

/**
the Steam credentials and redis location can also come from the environment, which wins over the file.
this lets the helper apps run without a config file
*/
func (c *Config) applyEnvironment() {
	if apiKey := os.Getenv("STEAM_API_KEY"); apiKey != "" {
		c.Steam.ApiKey = apiKey
	}
	if steamId := os.Getenv("STEAM_ID"); steamId != "" {
		c.Steam.SteamId = steamId
	}
	if redisAddr := os.Getenv("REDIS_ADDRESS"); redisAddr != "" {
		c.Redis.Address = redisAddr
	}
}

func ParseConfig(configBytes []byte) (*Config, error) {
	var conf Config

	err := yaml.Unmarshal(configBytes, &conf)
	if err != nil {
		return nil, err
	}
	conf.applyEnvironment()
	conf.applyDefaults()
	return &conf, nil
}

func ReadConfig(configFile string) (*Config, error) {
	configBytes, readErr := ioutil.ReadFile(configFile)
	if readErr != nil {
		log.Printf("Could not read config from '%s': %s\n", configFile, readErr)
		return nil, readErr
	}

	conf, err := ParseConfig(configBytes)
	if err != nil {
		log.Printf("Could not understand config from '%s': %s\n", configFile, err)
		return nil, err
	}
	return conf, nil
}

/**
like ReadConfig, but a missing file is not an error; the settings then come from the environment alone
*/
func ReadConfigOrEnvironment(configFile string) (*Config, error) {
	if _, statErr := os.Stat(configFile); os.IsNotExist(statErr) {
		log.Printf("No config file at '%s', using the environment", configFile)
		return ParseConfig([]byte{})
	}
	return ReadConfig(configFile)
}

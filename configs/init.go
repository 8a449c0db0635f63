package configs

import (
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

type configs struct {
	Service  ServiceConfig  `yaml:"service"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	S3       S3Config       `yaml:"s3"`
	Identity IdentityConfig `yaml:"identity"`
	Email    EmailConfig    `yaml:"email"`
	Push     PushConfig     `yaml:"push"`
	Logs     LogsConfig     `yaml:"logs"`
	Secrets  Secrets        `yaml:"secrets"`
}

var Configs configs

func Init(ConfigPath *string) {
	var configPath string
	if ConfigPath == nil || *ConfigPath == "" {
		_, b, _, _ := runtime.Caller(0)
		BasePath := filepath.Dir(b)
		configPath = BasePath + "/file/configs.yaml"
	} else {
		configPath = *ConfigPath
	}
	load(configPath)

	InitLogger()
}

func load(ConfigsPath string) {
	// The logger is not up yet; a bad config file is a hard startup error.
	yamlFile, err := os.ReadFile(ConfigsPath)
	if err != nil {
		panic("failed to read config file " + ConfigsPath + ": " + err.Error())
	}
	if err := yaml.Unmarshal(yamlFile, &Configs); err != nil {
		panic("failed to parse config file " + ConfigsPath + ": " + err.Error())
	}
}

package util

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
)

type configValue struct {
	envVarName   string
	required     bool
	errorMessage string
	defaultValue string
	Value        string
}

type Config struct {
	CatalogBaseUrl     configValue
	DbConnectionString configValue
	HttpTimeoutSeconds configValue
	SeqUrl             configValue
	SeqToken           configValue
	Environment        configValue
}

func NewConfig() *Config {
	const catalogBaseUrlName = "CATALOG_BASE_URL"
	const dbConnectionStringName = "DB_CONNECTION_STRING"
	const httpTimeoutSecondsName = "HTTP_TIMEOUT_SECONDS"
	const seqUrlName = "SEQ_URL"
	const seqTokenName = "SEQ_TOKEN"
	const environmentName = "ENVIRONMENT"

	return &Config{
		CatalogBaseUrl: configValue{
			envVarName:   catalogBaseUrlName,
			required:     false,
			defaultValue: "https://neoauto.com/venta-de-autos",
		},
		DbConnectionString: configValue{
			envVarName:   dbConnectionStringName,
			required:     true,
			errorMessage: fmt.Sprintf("make sure that environment variable %s is set and in DSN format", dbConnectionStringName),
		},
		HttpTimeoutSeconds: configValue{
			envVarName:   httpTimeoutSecondsName,
			required:     false,
			defaultValue: "10",
		},
		SeqUrl: configValue{
			envVarName: seqUrlName,
			required:   false,
		},
		SeqToken: configValue{
			envVarName: seqTokenName,
			required:   false,
		},
		Environment: configValue{
			envVarName:   environmentName,
			required:     false,
			defaultValue: "development",
		},
	}
}

// HttpTimeout returns the fetch timeout in whole seconds.
func (c *Config) HttpTimeout() int {
	seconds, err := strconv.Atoi(c.HttpTimeoutSeconds.Value)
	if err != nil || seconds <= 0 {
		return 10
	}

	return seconds
}

var config *Config

func GetConfig() *Config {
	if config == nil {
		return load()
	}

	return config
}

func load() *Config {
	config := NewConfig()

	if err := populateEnv(&config.CatalogBaseUrl); err != nil {
		log.Fatal(err)
	}
	if err := populateEnv(&config.DbConnectionString); err != nil {
		log.Fatal(err)
	}
	if err := populateEnv(&config.HttpTimeoutSeconds); err != nil {
		log.Fatal(err)
	}
	if err := populateEnv(&config.SeqUrl); err != nil {
		log.Fatal(err)
	}
	if err := populateEnv(&config.SeqToken); err != nil {
		log.Fatal(err)
	}
	if err := populateEnv(&config.Environment); err != nil {
		log.Fatal(err)
	}

	return config
}

func populateEnv(m *configValue) (err error) {
	v := os.Getenv(m.envVarName)

	if v == "" && m.required {
		if m.errorMessage != "" {
			return errors.New(m.errorMessage)
		}

		return fmt.Errorf("environment variable %s is not set", m.envVarName)
	}

	if v == "" && m.defaultValue != "" {
		m.Value = m.defaultValue
		return nil
	}

	m.Value = v
	return nil
}

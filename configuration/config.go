package configuration

import (
	"flag"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfig Load minimum working configuration to allow
// agent start without user provided one
func DefaultConfig() *Config {
	c := Config{}
	if err := yaml.Unmarshal(defaultConfig, &c); err != nil {
		panic(err.Error())
	}

	return &c
}

// ReadConfig read agent configuration
func ReadConfig() *Config {
	log := GetHumanLogger()
	log.Info("loading config")

	flag.Parse()

	c := DefaultConfig()

	if len(configFile) == 0 {
		log.Info("No config file provided\nuse --config option or GLOWBRIDGE_CONFIG environment variable to provide own")
		log.Info("default config: \n", string(defaultConfig))
	} else {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			log.Error("config not found", "file", configFile)
			return nil
		}

		data, err := ioutil.ReadFile(configFile)
		if err != nil {
			panic(err.Error())
		}

		if err = yaml.Unmarshal(data, c); err != nil {
			panic(err.Error())
		}
	}

	return c
}

// WriteConfig persists the provided config for the next boot. Used by the
// provisioning surface when broker or device settings change
func WriteConfig(path string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(path, data, 0600)
}

// File reports the config file currently in use, empty when running on
// defaults
func File() string {
	return configFile
}

package config

import (
	"os"
	"path/filepath"

	"github.com/driftguard/driftguard/lib/util"
	"github.com/driftguard/driftguard/lib/util/logger"
	"github.com/spf13/viper"
)

var (
	CfgFile string
	log     = logger.GetDriftguardLogger()
)

const DRIFTGUARD_BASE_DIR = ".driftguard"

func InitConfig() {
	if CfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(CfgFile)
	} else {
		// Set up viper to use the default config path $HOME/.driftguard/
		viper.AddConfigPath(BuildDriftguardDirPath())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Load defaults
	setDefaults()

	// handle config file creating it if needed
	handleConfigFile()
}

func setDefaults() {
	// Watchdog defaults
	viper.SetDefault("watchdog.check_interval", DefaultCheckInterval)
	viper.SetDefault("watchdog.allowed_difference", DefaultAllowedDifference)
	viper.SetDefault("watchdog.timeout_duration", DefaultTimeoutDuration)
	viper.SetDefault("watchdog.min_reboot_interval", DefaultMinRebootInterval)
	viper.SetDefault("watchdog.sample_timeout", DefaultSampleTimeout)
	viper.SetDefault("watchdog.reference_url", DefaultReferenceURL)
	viper.SetDefault("watchdog.mode", DefaultMode)
	viper.SetDefault("watchdog.record_path", DefaultRecordPath())

	// Reference server defaults
	viper.SetDefault("reference.enabled", false)
	viper.SetDefault("reference.address", DefaultReferenceAddress)

	// NTP source defaults
	viper.SetDefault("ntp.enabled", false)
	viper.SetDefault("ntp.server", DefaultNTPServer)
}

func createDefaultConfig(defaultConfigDir string) {
	defaultConfigFile := filepath.Join(defaultConfigDir, "config.yaml")
	// Ensure directory exists
	if err := os.MkdirAll(defaultConfigDir, 0o755); err != nil {
		log.Fatalf("Could not create config directory: %s", err)
	}

	// Write current config file
	if err := viper.WriteConfigAs(defaultConfigFile); err != nil {
		log.Fatalf("Could not write default config file: %s", err)
	}

	log.Debugf("Created default configuration at: %s", defaultConfigFile)
}

func handleConfigFile() {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if CfgFile != "" {
				log.Fatalf("Config file %s is not found: %s", CfgFile, err)
			} else {
				createDefaultConfig(BuildDriftguardDirPath())
			}
		} else {
			log.Fatalf("Error reading config file: %s", err)
		}
	} else {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}

func BuildDriftguardDirPath() string {
	return filepath.Join(util.UserHome(), DRIFTGUARD_BASE_DIR)
}

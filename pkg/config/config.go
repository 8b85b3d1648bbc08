package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Settings holds everything the daemon reads from config.yaml / env.
type Settings struct {
	RPCURL        string `mapstructure:"rpc_url"`
	ModelURL      string `mapstructure:"model_url"`
	OracleURL     string `mapstructure:"oracle_url"`
	BrokerURL     string `mapstructure:"broker_url"`
	WalletSvcURL  string `mapstructure:"wallet_service_url"`
	SponsorURL    string `mapstructure:"sponsor_url"`
	WebChatListen string `mapstructure:"webchat_listen"` // e.g. ":8787"
	CronTick      string `mapstructure:"cron_tick"`      // scheduler tick interval, e.g. "30s"
}

// Load binds the settings struct from viper with sane defaults.
func Load() (Settings, error) {
	viper.SetDefault("rpc_url", "https://forno.celo.org")
	viper.SetDefault("oracle_url", "https://oracle.agentpesa.dev")
	viper.SetDefault("webchat_listen", ":8787")
	viper.SetDefault("cron_tick", "30s")

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// BaseDataDir returns the root ~/.agentpesa directory.
func BaseDataDir() string {
	home, _ := os.UserHomeDir()
	path := filepath.Join(home, ".agentpesa")
	_ = os.MkdirAll(path, 0755)
	return path
}

// RegistryPath returns the agent registry persistence file.
func RegistryPath() string {
	return filepath.Join(BaseDataDir(), "registry.json")
}

// StorePath returns the sqlite database holding channel bindings and
// schedules.
func StorePath() string {
	return filepath.Join(BaseDataDir(), "agentpesa.db")
}

package params

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/anyswap/Stellar-SDK/log"
)

// DefaultRequestTimeout is used when RequestTimeout is not configured
const DefaultRequestTimeout = 60 * time.Second

var ledgerConfig *LedgerConfig

// LedgerConfig config items (decode from toml file)
type LedgerConfig struct {
	NetworkPassphrase string
	HorizonURL        string `toml:",omitempty" json:",omitempty"`
	RPCURL            string `toml:",omitempty" json:",omitempty"`
	RequestTimeout    uint64 `toml:",omitempty" json:",omitempty"` // seconds

	WebAuth      *WebAuthConfig      `toml:",omitempty" json:",omitempty"`
	ContractAuth *ContractAuthConfig `toml:",omitempty" json:",omitempty"`
}

// WebAuthConfig account web auth server
type WebAuthConfig struct {
	AuthEndpoint        string
	ServerSigningKey    string
	HomeDomain          string
	WebAuthDomain       string `toml:",omitempty" json:",omitempty"`
	ClientDomain        string `toml:",omitempty" json:",omitempty"`
	ClientDomainAccount string `toml:",omitempty" json:",omitempty"`
	GracePeriod         uint64 `toml:",omitempty" json:",omitempty"` // seconds
}

// ContractAuthConfig contract account web auth server
type ContractAuthConfig struct {
	AuthEndpoint        string
	WebAuthContractID   string
	ServerSigningKey    string
	HomeDomain          string
	WebAuthDomain       string `toml:",omitempty" json:",omitempty"`
	ClientDomain        string `toml:",omitempty" json:",omitempty"`
	ClientDomainAccount string `toml:",omitempty" json:",omitempty"`
}

// GetConfig get ledger config
func GetConfig() *LedgerConfig {
	return ledgerConfig
}

// SetConfig set ledger config
func SetConfig(config *LedgerConfig) {
	ledgerConfig = config
}

// GetRequestTimeout get request timeout
func (c *LedgerConfig) GetRequestTimeout() time.Duration {
	if c.RequestTimeout == 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// GetGracePeriod returns zero when unset so the caller default applies
func (c *WebAuthConfig) GetGracePeriod() time.Duration {
	return time.Duration(c.GracePeriod) * time.Second
}

// LoadConfig load config from toml file, check it and make it current
func LoadConfig(configFile string) (*LedgerConfig, error) {
	if configFile == "" {
		return nil, fmt.Errorf("LoadConfig error: no config file specified")
	}
	if _, err := os.Stat(configFile); err != nil {
		return nil, fmt.Errorf("LoadConfig error: config file %v not exist", configFile)
	}
	config := &LedgerConfig{}
	if _, err := toml.DecodeFile(configFile, config); err != nil {
		return nil, fmt.Errorf("LoadConfig error (toml DecodeFile): %w", err)
	}
	config.HorizonURL = strings.TrimSuffix(config.HorizonURL, "/")

	bs, _ := json.Marshal(config)
	log.Debug("LoadConfig finished", "configFile", configFile, "config", string(bs))
	if err := config.CheckConfig(); err != nil {
		return nil, fmt.Errorf("check config failed: %w", err)
	}
	SetConfig(config)
	log.Info("Check config success", "configFile", configFile)
	return config, nil
}

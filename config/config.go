package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ListenAddress    string   `toml:"ListenAddress"`
	DataDir          string   `toml:"DataDir"`
	NetworkName      string   `toml:"NetworkName"`
	Env              string   `toml:"Env"`
	Owner            string   `toml:"Owner"`
	RootAccounts     []string `toml:"RootAccounts"`
	PricePerByte     string   `toml:"PricePerByte"`
	MessageChestCost string   `toml:"MessageChestCost"`
	MintServiceURL   string   `toml:"MintServiceURL"`
}

// Load loads the configuration from the given path, writing a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg, path)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config, path string) {
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		cfg.ListenAddress = ":8645"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = filepath.Join(filepath.Dir(path), "agora-data")
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "agora-local"
	}
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.PricePerByte) == "" {
		cfg.PricePerByte = "1"
	}
	if strings.TrimSpace(cfg.MessageChestCost) == "" {
		cfg.MessageChestCost = "0"
	}
	if cfg.RootAccounts == nil {
		cfg.RootAccounts = []string{}
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Owner) == "" {
		return fmt.Errorf("config: Owner is required")
	}
	if _, err := cfg.PricePerByteAmount(); err != nil {
		return err
	}
	if _, err := cfg.MessageChestCostAmount(); err != nil {
		return err
	}
	return nil
}

// PricePerByteAmount parses the configured storage price. Amounts are decimal
// strings because they may exceed uint64.
func (c *Config) PricePerByteAmount() (*big.Int, error) {
	return parseAmount("PricePerByte", c.PricePerByte)
}

// MessageChestCostAmount parses the exact payment a message chest requires.
func (c *Config) MessageChestCostAmount() (*big.Int, error) {
	return parseAmount("MessageChestCost", c.MessageChestCost)
}

func parseAmount(field, raw string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("config: %s %q is not a non-negative decimal", field, raw)
	}
	return amount, nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		Owner:        "agora.owner",
		RootAccounts: []string{"agora.owner"},
	}
	applyDefaults(cfg, path)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"ENV"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32         `mapstructure:"DB_MIN_CONNS"`
	AptosNodeURL    string        `mapstructure:"APTOS_NODE_URL"`
	AptosFaucetURL  string        `mapstructure:"APTOS_FAUCET_URL"`
	ContractAddress string        `mapstructure:"CONTRACT_ADDRESS"`
	WaitFinality    bool          `mapstructure:"CHAIN_WAIT_FINALITY"`
	PinataJWT       string        `mapstructure:"PINATA_JWT"`
	PinataEndpoint  string        `mapstructure:"PINATA_ENDPOINT"`
	IPFSGateways    []string      `mapstructure:"IPFS_GATEWAYS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	UploadMaxBytes  int64         `mapstructure:"UPLOAD_MAX_BYTES"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8002")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("APTOS_NODE_URL", "https://fullnode.devnet.aptoslabs.com/v1")
	v.SetDefault("APTOS_FAUCET_URL", "https://faucet.devnet.aptoslabs.com")
	v.SetDefault("CONTRACT_ADDRESS", "0x1")
	v.SetDefault("CHAIN_WAIT_FINALITY", false)
	v.SetDefault("PINATA_ENDPOINT", "https://api.pinata.cloud/pinning/pinFileToIPFS")
	v.SetDefault("IPFS_GATEWAYS", "https://ipfs.io/ipfs,https://gateway.pinata.cloud/ipfs,https://cloudflare-ipfs.com/ipfs")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("UPLOAD_MAX_BYTES", 25*1024*1024)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("APTOS_NODE_URL")
	v.BindEnv("APTOS_FAUCET_URL")
	v.BindEnv("CONTRACT_ADDRESS")
	v.BindEnv("CHAIN_WAIT_FINALITY")
	v.BindEnv("PINATA_JWT")
	v.BindEnv("PINATA_ENDPOINT")
	v.BindEnv("IPFS_GATEWAYS")
	v.BindEnv("REQUEST_TIMEOUT")
	v.BindEnv("UPLOAD_MAX_BYTES")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	if cfg.IPFSGateways == nil {
		if gateways := v.GetString("IPFS_GATEWAYS"); gateways != "" {
			cfg.IPFSGateways = strings.Split(gateways, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.PinataJWT == "" {
		log.Println("WARNING: PINATA_JWT is not set; uploads will use the in-memory content store.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// the pinning credential and contract address must be present, since every
// upload and every transaction depends on them.
func (c *Config) Validate() error {
	if !c.IsDev() {
		if c.PinataJWT == "" {
			return fmt.Errorf("PINATA_JWT is required when ENV is not development")
		}
		if c.ContractAddress == "" || c.ContractAddress == "0x1" {
			return fmt.Errorf("CONTRACT_ADDRESS must be set to the deployed module address (got %q)", c.ContractAddress)
		}
	}
	if len(c.IPFSGateways) == 0 {
		return fmt.Errorf("IPFS_GATEWAYS must list at least one gateway")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.UploadMaxBytes)
	}
	return nil
}

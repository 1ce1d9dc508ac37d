package cliparse

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/gauge-autovoter/auth"
	"github.com/danielhkuo/gauge-autovoter/lockers"
	"github.com/danielhkuo/gauge-autovoter/models"
	"github.com/danielhkuo/gauge-autovoter/snapshot"
)

const (
	DefaultConfigPath = "data/config.json"
	DefaultEnvFile    = ".env"
)

type Config struct {
	Mode       string
	ConfigPath string
	EnvFile    string
	HubURL     string
	LockersURL string
	RPCURL     string
	Timeout    time.Duration
	DryRun     bool
	FailFast   bool
	Verbose    bool

	// Signer casts the votes. PublicAddress is the delegate whose on-chain
	// record is read; it is only set in on-chain mode.
	Signer        *auth.Signer
	PublicAddress ethcommon.Address
	VoterContract ethcommon.Address
	Multicall     ethcommon.Address

	File models.FileConfig
}

// ParseFlags reads flags, falling back to the environment and then to the
// .env file, and validates everything before any network call is made
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var privateKey, mnemonic, publicAddress, timeout string

	fs := flag.NewFlagSet("gauge-autovoter", flag.ContinueOnError)

	fs.StringVar(&cfg.Mode, "mode", "", "Run mode: config or onchain")
	fs.StringVar(&cfg.ConfigPath, "c", "", "Path to the JSON config file")
	fs.StringVar(&cfg.EnvFile, "env", DefaultEnvFile, "Path to a .env file (optional)")
	fs.StringVar(&cfg.HubURL, "hub", "", "Snapshot hub URL")
	fs.StringVar(&cfg.LockersURL, "lockers", "", "Active lockers registry URL")
	fs.StringVar(&cfg.RPCURL, "rpc", "", "Ethereum RPC URL (onchain mode)")
	fs.StringVar(&timeout, "timeout", "", "Per-request HTTP timeout, e.g. 30s")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Build votes without submitting them")
	fs.BoolVar(&cfg.FailFast, "fail-fast", false, "Stop at the first failed space")
	fs.BoolVar(&cfg.Verbose, "v", false, "Debug logging")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&privateKey, "private-key", "", "Delegate private key (prefer env)")
	fs.StringVar(&mnemonic, "mnemonic", "", "Delegate mnemonic (prefer env)")
	fs.StringVar(&publicAddress, "public-address", "", "Delegate address read from the voter contract")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	env, err := loadEnvFile(cfg.EnvFile)
	if err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	fallback(&cfg.Mode, env.get("AUTOVOTER_MODE"), models.ModeConfig)
	fallback(&cfg.ConfigPath, env.get("AUTOVOTER_CONFIG"), DefaultConfigPath)
	fallback(&cfg.HubURL, env.get("HUB"), snapshot.DefaultHubURL)
	fallback(&cfg.LockersURL, env.get("LOCKERS_URL"), lockers.DefaultURL)
	fallback(&cfg.RPCURL, env.get("MAINNET_RPC_URL"), "")
	fallback(&timeout, env.get("AUTOVOTER_TIMEOUT"), "")
	fallback(&privateKey, env.get("DELEGATION_PRIVATE_KEY"), "")
	fallback(&mnemonic, env.get("DELEGATION_MNEMONIC"), "")
	fallback(&publicAddress, env.get("PUBLIC_ADDRESS"), "")

	for name, dst := range map[string]*bool{
		"dry-run":   &cfg.DryRun,
		"fail-fast": &cfg.FailFast,
		"v":         &cfg.Verbose,
	} {
		if set[name] {
			continue
		}
		key := boolEnv[name]
		if v := env.get(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s env variable", key)
			}
			*dst = b
		}
	}

	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d < 0 {
			return Config{}, errors.New("invalid timeout (use -timeout or AUTOVOTER_TIMEOUT, e.g. 30s)")
		}
		cfg.Timeout = d
	}

	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	if cfg.Mode != models.ModeConfig && cfg.Mode != models.ModeOnchain {
		return Config{}, fmt.Errorf("unknown mode %q (use %s or %s)", cfg.Mode, models.ModeConfig, models.ModeOnchain)
	}

	// Signing key - MUST be provided
	switch {
	case privateKey != "" && mnemonic != "":
		return Config{}, errors.New("set only one of DELEGATION_PRIVATE_KEY or DELEGATION_MNEMONIC")
	case privateKey != "":
		cfg.Signer, err = auth.FromHex(privateKey)
	case mnemonic != "":
		cfg.Signer, err = auth.FromMnemonic(mnemonic)
	default:
		return Config{}, errors.New("DELEGATION_PRIVATE_KEY or DELEGATION_MNEMONIC required")
	}
	if err != nil {
		return Config{}, err
	}

	cfg.File, err = LoadFile(cfg.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	if cfg.Mode == models.ModeOnchain {
		if err := cfg.validateOnchain(publicAddress); err != nil {
			return Config{}, err
		}
	} else if err := validateVotes(cfg.File.Votes); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var boolEnv = map[string]string{
	"dry-run":   "AUTOVOTER_DRY_RUN",
	"fail-fast": "AUTOVOTER_FAIL_FAST",
	"v":         "AUTOVOTER_VERBOSE",
}

func (cfg *Config) validateOnchain(publicAddress string) error {
	if publicAddress == "" {
		return errors.New("PUBLIC_ADDRESS required in onchain mode")
	}
	addr, err := auth.ParseAddress(publicAddress)
	if err != nil {
		return fmt.Errorf("PUBLIC_ADDRESS: %w", err)
	}
	cfg.PublicAddress = addr

	if cfg.RPCURL == "" {
		return errors.New("RPC URL required in onchain mode (use -rpc or MAINNET_RPC_URL env)")
	}

	if cfg.File.VoterContract == "" {
		return fmt.Errorf("%s: voterContract required in onchain mode", cfg.ConfigPath)
	}
	cfg.VoterContract, err = auth.ParseAddress(cfg.File.VoterContract)
	if err != nil {
		return fmt.Errorf("%s: voterContract: %w", cfg.ConfigPath, err)
	}

	if cfg.File.Multicall != "" {
		cfg.Multicall, err = auth.ParseAddress(cfg.File.Multicall)
		if err != nil {
			return fmt.Errorf("%s: multicall: %w", cfg.ConfigPath, err)
		}
	}
	return nil
}

// validateVotes trims every entry in place so later prefix matching sees
// the same strings the operator meant
func validateVotes(votes []models.Allocation) error {
	for i := range votes {
		v := &votes[i]
		v.Space = strings.TrimSpace(v.Space)
		v.GaugeAddress = strings.TrimSpace(v.GaugeAddress)

		if v.Space == "" {
			return fmt.Errorf("votes[%d]: space required", i)
		}
		if v.GaugeAddress == "" {
			return fmt.Errorf("votes[%d]: gaugeAddress required", i)
		}
		if !strings.HasPrefix(strings.ToLower(v.GaugeAddress), "0x") {
			return fmt.Errorf("votes[%d]: gaugeAddress %q is not a hex address", i, v.GaugeAddress)
		}
	}
	return nil
}

// LoadFile reads the static JSON configuration
func LoadFile(path string) (models.FileConfig, error) {
	var file models.FileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	// A missing or null weight decodes to zero; make the operator say so.
	var weights struct {
		Votes []struct {
			Weight *json.RawMessage `json:"weight"`
		} `json:"votes"`
	}
	if err := json.Unmarshal(data, &weights); err != nil {
		return file, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	for i, v := range weights.Votes {
		if v.Weight == nil {
			return file, fmt.Errorf("invalid config file %s: votes[%d]: weight required", path, i)
		}
	}
	return file, nil
}

// dotenv holds the .env file values; process env always wins
type dotenv map[string]string

func loadEnvFile(path string) (dotenv, error) {
	if path == "" {
		return dotenv{}, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return dotenv{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}

func (e dotenv) get(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return e[key]
}

func fallback(dst *string, env, def string) {
	if *dst == "" {
		*dst = env
	}
	if *dst == "" {
		*dst = def
	}
}

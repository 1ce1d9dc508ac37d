// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings, already validated:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-mode            config or onchain (default: config)
	-c               JSON config file (default: data/config.json)
	-env             .env file (default: .env, missing is fine)
	-hub             Snapshot hub URL
	-lockers         Active lockers registry URL
	-rpc             Ethereum RPC URL
	-timeout         Per-request HTTP timeout
	-dry-run         Build votes but don't submit
	-fail-fast       Stop at the first failed space
	-v               Debug logging
	-private-key     Delegate private key
	-mnemonic        Delegate mnemonic
	-public-address  Delegate address (onchain)

# Environment Variables

Flags fall back to environment variables, then to the .env file:

	AUTOVOTER_MODE         → -mode
	AUTOVOTER_CONFIG       → -c
	HUB                    → -hub
	LOCKERS_URL            → -lockers
	MAINNET_RPC_URL        → -rpc
	AUTOVOTER_TIMEOUT      → -timeout
	AUTOVOTER_DRY_RUN      → -dry-run
	AUTOVOTER_FAIL_FAST    → -fail-fast
	AUTOVOTER_VERBOSE      → -v
	DELEGATION_PRIVATE_KEY → -private-key
	DELEGATION_MNEMONIC    → -mnemonic
	PUBLIC_ADDRESS         → -public-address

CLI flags take precedence over environment variables, and environment
variables over the .env file.

# Validation

ParseFlags returns an error before any network call if:

  - neither or both of DELEGATION_PRIVATE_KEY and DELEGATION_MNEMONIC are set
  - the key, mnemonic or an address is malformed
  - the config file is missing or not valid JSON
  - onchain mode lacks PUBLIC_ADDRESS, an RPC URL or voterContract
  - a config mode vote lacks space or gaugeAddress

# Config File

	{
	  "spaces": ["sdcrv.eth"],
	  "voterContract": "0x...",
	  "multicall": "0x...",
	  "votes": [{"space": "sdcrv.eth", "gaugeAddress": "0x...", "weight": "5"}]
	}

spaces, voterContract and multicall are read in onchain mode; votes in
config mode. multicall is optional.
*/
package cliparse

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth loads the delegate key that signs votes.

# Private Keys

A hex secp256k1 key, with or without the 0x prefix:

	signer, err := auth.FromHex(os.Getenv("DELEGATION_PRIVATE_KEY"))

# Mnemonics

A BIP-39 mnemonic, derived along m/44'/60'/0'/0/0 (the first account
most Ethereum wallets show):

	signer, err := auth.FromMnemonic(os.Getenv("DELEGATION_MNEMONIC"))

# Signing

SignHash returns a 65-byte signature with V in {27, 28}, the encoding
Snapshot expects for EIP-712 messages:

	sig, err := signer.SignHash(digest)

The key never leaves the Signer; only Address is exported.
*/
package auth

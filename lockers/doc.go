// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package lockers reads the registry of active lockers. Only spaces listed
// there are voted on in config mode; matching is case-insensitive.
package lockers

// Package config loads gitcore settings and evaluates the policy gates built on them.
//
// It handles:
//   - The settings store (a viper-read file, re-read on every check)
//   - Boolean policy flags with environment overrides
//   - Wildcard branch protection rules and the prompt mode for protected branches
package config

// Package config loads runtime settings from the environment and an optional
// .env file.
package config

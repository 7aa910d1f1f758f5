// Package config manages the mirror's configuration.
//
// Configuration is loaded from a YAML file and overridden by IAM_MIRROR_*
// environment variables. Each attribute tracks where its value came from
// (default, file, or environment) so that "iamctl configuration show" can
// display the effective configuration.
package config

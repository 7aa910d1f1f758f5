package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/iam-mirror/config"
	ConfigFileName    = "iam-mirror.yml"
)

// Config holds all mirror configuration settings
type Config struct {
	// AWSRegion is the region used for STS and IAM API calls
	AWSRegion string `yaml:"aws_region" json:"aws_region"`

	// RoleSessionName is the session name used when assuming account roles
	RoleSessionName string `yaml:"role_session_name" json:"role_session_name"`

	// SyncTimeoutSeconds bounds a single account reconciliation
	SyncTimeoutSeconds int `yaml:"sync_timeout_seconds" json:"sync_timeout_seconds"`

	// APIResourceListLimitMax is the maximum number of results for listing requests
	APIResourceListLimitMax int `yaml:"api_resource_list_limit_max" json:"api_resource_list_limit_max"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// AuditEnabled enables the RFC5424 audit log
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		AWSRegion:               "us-east-1",
		RoleSessionName:         "iam-mirror-sync",
		SyncTimeoutSeconds:      300,
		APIResourceListLimitMax: 1000,
		TrustedProxies:          []string{},
		AuditEnabled:            true,
		sources:                 make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := newDefault()

	// Initialize all sources as "default"
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	// Determine config file path
	configPath := os.Getenv("IAM_MIRROR_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	// Try to load from config file
	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)

		// A plain bool cannot distinguish false from unset, so
		// audit_enabled gets its own presence check.
		var fileFlags struct {
			AuditEnabled *bool `yaml:"audit_enabled"`
		}
		if err := yaml.Unmarshal(data, &fileFlags); err == nil && fileFlags.AuditEnabled != nil {
			config.AuditEnabled = *fileFlags.AuditEnabled
			config.sources["audit_enabled"] = "file"
		}
	}

	// Override with environment variables
	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"aws_region", "role_session_name", "sync_timeout_seconds",
		"api_resource_list_limit_max", "trusted_proxies", "audit_enabled",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.AWSRegion != "" {
		c.AWSRegion = file.AWSRegion
		c.sources["aws_region"] = "file"
	}
	if file.RoleSessionName != "" {
		c.RoleSessionName = file.RoleSessionName
		c.sources["role_session_name"] = "file"
	}
	if file.SyncTimeoutSeconds != 0 {
		c.SyncTimeoutSeconds = file.SyncTimeoutSeconds
		c.sources["sync_timeout_seconds"] = "file"
	}
	if file.APIResourceListLimitMax != 0 {
		c.APIResourceListLimitMax = file.APIResourceListLimitMax
		c.sources["api_resource_list_limit_max"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("IAM_MIRROR_AWS_REGION"); val != "" {
		c.AWSRegion = val
		c.sources["aws_region"] = "environment"
	}
	if val := os.Getenv("IAM_MIRROR_ROLE_SESSION_NAME"); val != "" {
		c.RoleSessionName = val
		c.sources["role_session_name"] = "environment"
	}
	if val := os.Getenv("IAM_MIRROR_SYNC_TIMEOUT_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SyncTimeoutSeconds = i
			c.sources["sync_timeout_seconds"] = "environment"
		}
	}
	if val := os.Getenv("IAM_MIRROR_API_RESOURCE_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.APIResourceListLimitMax = i
			c.sources["api_resource_list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("IAM_MIRROR_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("IAM_MIRROR_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// SyncTimeout returns the per-account sync timeout as a duration
func (c *Config) SyncTimeout() time.Duration {
	return time.Duration(c.SyncTimeoutSeconds) * time.Second
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	if c.SyncTimeoutSeconds < 0 {
		return fmt.Errorf("sync_timeout_seconds must not be negative")
	}
	if c.APIResourceListLimitMax <= 0 {
		return fmt.Errorf("api_resource_list_limit_max must be positive")
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "aws_region", Value: c.AWSRegion, Source: c.Source("aws_region")},
		{Name: "role_session_name", Value: c.RoleSessionName, Source: c.Source("role_session_name")},
		{Name: "sync_timeout_seconds", Value: strconv.Itoa(c.SyncTimeoutSeconds), Source: c.Source("sync_timeout_seconds")},
		{Name: "api_resource_list_limit_max", Value: strconv.Itoa(c.APIResourceListLimitMax), Source: c.Source("api_resource_list_limit_max")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

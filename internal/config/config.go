package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"repeater-test-service/internal/grading"
)

type Config struct {
	Server struct {
		Port   string `yaml:"port"`
		APIKey string `yaml:"apiKey"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Data struct {
		SolutionsPath string `yaml:"solutionsPath"`
		ScenariosPath string `yaml:"scenariosPath"`
		RegistryPath  string `yaml:"registryPath"`
		AuditPath     string `yaml:"auditPath"`
		RosterPath    string `yaml:"rosterPath"`
	} `yaml:"data"`
	Test struct {
		FirstInstanceID int `yaml:"firstInstanceId"`
		InstanceCount   int `yaml:"instanceCount"`
	} `yaml:"test"`
	Catalog struct {
		Items     []string `yaml:"items"`
		Locations []string `yaml:"locations"`
	} `yaml:"catalog"`
	Scoring struct {
		FullCreditPoints     *int  `yaml:"fullCreditPoints"`
		PartialCreditPoints  *int  `yaml:"partialCreditPoints"`
		PartialCreditEnabled *bool `yaml:"partialCreditEnabled"`
		BonusPerOptional     *int  `yaml:"bonusPerOptional"`
		DeductionPerUnlikely *int  `yaml:"deductionPerUnlikely"`
	} `yaml:"scoring"`
	Mail struct {
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"apiKey"`
	} `yaml:"mail"`
	Links struct {
		MapURL  string `yaml:"mapUrl"`
		FormURL string `yaml:"formUrl"`
		From    string `yaml:"from"`
	} `yaml:"links"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Policy merges the scoring overrides over the default weights. Absent fields
// keep their defaults so a config can flip one knob without restating the rest.
func (c Config) Policy() grading.Policy {
	policy := grading.DefaultPolicy()
	if v := c.Scoring.FullCreditPoints; v != nil {
		policy.FullCreditPoints = *v
	}
	if v := c.Scoring.PartialCreditPoints; v != nil {
		policy.PartialCreditPoints = *v
	}
	if v := c.Scoring.PartialCreditEnabled; v != nil {
		policy.PartialCreditEnabled = *v
	}
	if v := c.Scoring.BonusPerOptional; v != nil {
		policy.BonusPerOptional = *v
	}
	if v := c.Scoring.DeductionPerUnlikely; v != nil {
		policy.DeductionPerUnlikely = *v
	}
	return policy
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

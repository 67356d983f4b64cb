package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Gateway struct {
		SourceMessageID string `yaml:"source_message_id"`
	} `yaml:"gateway"`
	Quiz struct {
		File               string `yaml:"file"`
		BankID             string `yaml:"bank_id"`
		TTL                string `yaml:"ttl"`
		TimeLimit          int    `yaml:"time_limit"`          // minutes
		MaxWrongAnswers    int    `yaml:"max_wrong_answers"`   // strikes tolerated
		QuestionCount      int    `yaml:"question_count"`      // questions per session
		FailureCooldown    int    `yaml:"failure_cooldown"`    // hours
		CooldownMultiplier int    `yaml:"cooldown_multiplier"` // per-failure escalation
	} `yaml:"quiz"`
	RoleIDs struct {
		Add    string `yaml:"add"`
		Remove string `yaml:"remove"`
	} `yaml:"role_ids"`
	Cooldowns struct {
		File string `yaml:"file"`
	} `yaml:"cooldowns"`
	Directory struct {
		URL string `yaml:"url"`
	} `yaml:"directory"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

// Load reads YAML config from path and validates the quiz settings.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects quiz settings the session machine cannot run with.
func (c Config) Validate() error {
	if c.Quiz.TimeLimit < 1 {
		return fmt.Errorf(`"time_limit" must be an integer greater than 0`)
	}
	if c.Quiz.MaxWrongAnswers < 0 {
		return fmt.Errorf(`"max_wrong_answers" must be an integer equal to or greater than 0`)
	}
	if c.Quiz.QuestionCount < 1 {
		return fmt.Errorf(`"question_count" must be an integer greater than 0`)
	}
	if c.Quiz.FailureCooldown < 0 {
		return fmt.Errorf(`"failure_cooldown" must be an integer equal to or greater than 0`)
	}
	if c.Quiz.CooldownMultiplier < 1 {
		return fmt.Errorf(`"cooldown_multiplier" must be an integer greater than 0`)
	}
	if strings.TrimSpace(c.RoleIDs.Add) == "" && strings.TrimSpace(c.RoleIDs.Remove) == "" {
		return errors.New(`"role_ids.add" and "role_ids.remove" can't be empty at the same time`)
	}
	return nil
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

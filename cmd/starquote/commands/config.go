package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"starquote/internal/components/chrono"
	"starquote/internal/components/configutil"
	"starquote/internal/components/db"
	"starquote/internal/notify"
	"starquote/internal/quote"
	"starquote/internal/scrapers/starhealth"
	"time"
)

const defaultWatchCron = "0 9 * * *"

type PortalConfig struct {
	starhealth.Options
	// DumpDir receives a copy of every request/response pair when set.
	DumpDir string `json:"dump_dir"`
}

type SubjectConfig struct {
	DOB string `json:"dob"`
}

type MemberConfig struct {
	Name string `json:"name"`
	DOB  string `json:"dob"`
	Role string `json:"role"`
}

type WatchConfig struct {
	Cron string `json:"cron"`
}

type Config struct {
	Portal PortalConfig `json:"portal"`
	// PauseSeconds is the wait between portal requests, 0 disables it.
	PauseSeconds *float64          `json:"pause_seconds"`
	Timezone     string            `json:"timezone"`
	Subject      SubjectConfig     `json:"subject"`
	Family       []MemberConfig    `json:"family"`
	History      db.Config         `json:"history"`
	Smtp         notify.SmtpConfig `json:"smtp"`
	Watch        WatchConfig       `json:"watch"`
}

// applyDefaults fills every unset field with the built-in value.
func (c *Config) applyDefaults() {
	defaults := starhealth.DefaultOptions()
	portal := &c.Portal.Options
	if portal.BaseUrl == "" {
		portal.BaseUrl = defaults.BaseUrl
	}
	if portal.FormPath == "" {
		portal.FormPath = defaults.FormPath
	}
	if portal.ResultSelector == "" {
		portal.ResultSelector = defaults.ResultSelector
	}
	if portal.Fields.Age == "" {
		portal.Fields.Age = defaults.Fields.Age
	}
	if portal.Fields.SumInsured == "" {
		portal.Fields.SumInsured = defaults.Fields.SumInsured
	}
	if portal.Fields.Tenure == "" {
		portal.Fields.Tenure = defaults.Fields.Tenure
	}
	if portal.RequestsPerSecond == 0 {
		portal.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if portal.TimeoutSeconds == 0 {
		portal.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if portal.UserAgent == "" {
		portal.UserAgent = defaults.UserAgent
	}

	if c.PauseSeconds == nil {
		pause := quote.DefaultPause.Seconds()
		c.PauseSeconds = &pause
	}
	if c.Timezone == "" {
		c.Timezone = chrono.DefaultLocation
	}
	if c.Watch.Cron == "" {
		c.Watch.Cron = defaultWatchCron
	}
}

func (c Config) Pause() time.Duration {
	if c.PauseSeconds == nil {
		return quote.DefaultPause
	}
	return time.Duration(*c.PauseSeconds * float64(time.Second))
}

// People converts the configured family into validated persons.
func (c Config) People() ([]quote.Person, error) {
	people := make([]quote.Person, len(c.Family))
	for i, m := range c.Family {
		role, err := quote.ParseRole(m.Role)
		if err != nil {
			return nil, fmt.Errorf("family member %q: %w", m.Name, err)
		}
		person, err := quote.NewPerson(m.Name, m.DOB, role)
		if err != nil {
			return nil, fmt.Errorf("family member %q: %w", m.Name, err)
		}
		people[i] = person
	}
	return people, nil
}

// LoadConfig reads the config at `path`, a missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config file not found, using defaults", "path", path)
		cfg = Config{}
	} else if err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

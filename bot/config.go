package bot

import (
	"fmt"
	"strings"

	"github.com/m3rciful/pagerbot/bot/menu"
	coreconfig "github.com/m3rciful/pagerbot/core/config"
	coredatabase "github.com/m3rciful/pagerbot/core/database"
	"github.com/m3rciful/pagerbot/core/telegram/paging"
)

// PagerConfig shapes the inline menu.
type PagerConfig struct {
	Pages       int      `yaml:"pages" envconfig:"PAGER_PAGES"`
	HomeLabel   string   `yaml:"home_label" envconfig:"PAGER_HOME_LABEL"`
	ReplyLabels []string `yaml:"reply_labels" envconfig:"PAGER_REPLY_LABELS"`
	// JournalBuffer bounds pending journal writes; extra entries are dropped.
	JournalBuffer int `yaml:"journal_buffer" envconfig:"PAGER_JOURNAL_BUFFER"`
}

// Config is the full bot configuration: the shared core plus bot sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Pager    PagerConfig         `yaml:"pager"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads path, overlays the environment and validates every section.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg and fills pager and database defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	switch {
	case cfg.Pager.Pages == 0:
		cfg.Pager.Pages = paging.DefaultPages
	case cfg.Pager.Pages < 0:
		return fmt.Errorf("pager.pages must be >= 1")
	}
	cfg.Pager.HomeLabel = strings.TrimSpace(cfg.Pager.HomeLabel)
	if cfg.Pager.HomeLabel == "" {
		cfg.Pager.HomeLabel = menu.DefaultHomeLabel
	}
	if len(cfg.Pager.ReplyLabels) == 0 {
		cfg.Pager.ReplyLabels = []string{cfg.Pager.HomeLabel, menu.DefaultOrdersLabel, menu.DefaultReferralLabel}
	}
	if cfg.Pager.JournalBuffer <= 0 {
		cfg.Pager.JournalBuffer = 256
	}

	if err := cfg.Database.Normalize(); err != nil {
		return err
	}
	return nil
}

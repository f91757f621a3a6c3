package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"dupsweep/internal/config"
	"dupsweep/internal/logging"
	"dupsweep/internal/store"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonFlag:     jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// ensureLogger builds the process logger from config on first use.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		level := ""
		if c.logLevelFlag != nil {
			level = *c.logLevelFlag
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, level)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg)
}

func (c *commandContext) withStore(fn func(*store.Store) error) error {
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"episplit/internal/catalog"
	"episplit/internal/config"
	"episplit/internal/queue"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

// rawConfigPath returns the --config flag value without loading anything.
func (c *commandContext) rawConfigPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) withStore(fn func(*config.Config, *queue.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open queue store: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

// loadCatalog loads the configured episode catalog. A missing catalog
// file yields an empty catalog so matching falls back to filename
// metadata instead of failing the run.
func (c *commandContext) loadCatalog() (*catalog.Catalog, bool, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, false, err
	}
	cat, err := catalog.Load(cfg.Paths.CatalogPath)
	if err == nil {
		return cat, true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		empty, newErr := catalog.New(nil)
		if newErr != nil {
			return nil, false, newErr
		}
		return empty, false, nil
	}
	return nil, false, err
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

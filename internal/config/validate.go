package config

import (
	"errors"
	"fmt"
	"strings"
)

// DuplicatePolicies lists the accepted organizer.duplicate_policy values.
var DuplicatePolicies = []string{"skip", "reroute", "delete", "overwrite"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOrganizer(); err != nil {
		return err
	}
	if err := c.validateJournal(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOrganizer() error {
	if err := ensureBucketName("organizer.fallback_dir", c.Organizer.FallbackDir); err != nil {
		return err
	}
	if err := ensureBucketName("organizer.duplicates_dir", c.Organizer.DuplicatesDir); err != nil {
		return err
	}
	if c.Organizer.FallbackDir == c.Organizer.DuplicatesDir {
		return errors.New("organizer.fallback_dir and organizer.duplicates_dir must differ")
	}
	for _, policy := range DuplicatePolicies {
		if c.Organizer.DuplicatePolicy == policy {
			return nil
		}
	}
	return fmt.Errorf("organizer.duplicate_policy must be one of %s", strings.Join(DuplicatePolicies, ", "))
}

func (c *Config) validateJournal() error {
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		return errors.New("journal.path must be set when journal.enabled is true")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}

// ensureBucketName rejects names that would escape the output root when
// joined under it.
func ensureBucketName(key, value string) error {
	if value == "" {
		return fmt.Errorf("%s must be set", key)
	}
	if strings.ContainsAny(value, `/\`) || value == "." || value == ".." {
		return fmt.Errorf("%s must be a plain directory name", key)
	}
	return nil
}

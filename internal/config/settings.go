package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// fileSettings is the intermediate DTO for the JSON settings file. Only the
// fields that are awkward to express as environment variables live here:
// page metadata, the per-path SEO map, and the frontend asset source lists.
type fileSettings struct {
	HTML   *HTMLMeta           `json:"html"`
	SEO    map[string]SEOEntry `json:"seo"`
	Assets *AssetSources       `json:"assets"`
}

// LoadFile layers a JSON settings file on top of the configuration. Values
// absent from the file keep their current value.
func (c *Config) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read settings file: %w", err)
	}
	var fs fileSettings
	if err := json.Unmarshal(raw, &fs); err != nil {
		return fmt.Errorf("parse settings file %s: %w", path, err)
	}
	if fs.HTML != nil {
		c.HTML = *fs.HTML
	}
	if fs.SEO != nil {
		if c.SEO == nil {
			c.SEO = map[string]SEOEntry{}
		}
		for k, v := range fs.SEO {
			c.SEO[k] = v
		}
	}
	if fs.Assets != nil {
		c.Assets = *fs.Assets
	}
	return nil
}

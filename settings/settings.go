// Package settings holds the operator tunable defaults of lockbom,
// read once per run from settings.yaml in the lockbom home directory.
package settings

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/lockbom/lockbom/common"
)

const settingsstub = `settings.yaml`

type Settings struct {
	ToolIdentity      string `yaml:"tool-identity,omitempty"`
	DocumentNamespace string `yaml:"document-namespace,omitempty"`
	DefaultFormat     string `yaml:"default-format,omitempty"`
	DefaultType       string `yaml:"default-package-type,omitempty"`
}

func defaultSettings() *Settings {
	return &Settings{
		ToolIdentity:      common.ToolIdentity(),
		DocumentNamespace: "https://lockbom.dev/spdxdocs",
		DefaultFormat:     common.DefaultSbomFormat,
		DefaultType:       "application",
	}
}

var (
	chosen   *Settings
	summoned sync.Once
)

// SummonSettings loads the settings file when one exists and otherwise
// answers built-in defaults. Partial files are filled up from the
// defaults; a broken file degrades to defaults with a debug note, it
// never fails a run.
func SummonSettings() (*Settings, error) {
	summoned.Do(func() {
		chosen = defaultSettings()
		source := filepath.Join(common.Home(), settingsstub)
		content, err := os.ReadFile(source)
		if err != nil {
			common.Trace("No settings file at %q, using defaults.", source)
			return
		}
		loaded := &Settings{}
		if err := yaml.Unmarshal(content, loaded); err != nil {
			common.Debug("Ignoring broken settings file %q: %v", source, err)
			return
		}
		merge(chosen, loaded)
		common.Debug("Using settings from %q.", source)
	})
	return chosen, nil
}

func merge(target, loaded *Settings) {
	if len(loaded.ToolIdentity) > 0 {
		target.ToolIdentity = loaded.ToolIdentity
	}
	if len(loaded.DocumentNamespace) > 0 {
		target.DocumentNamespace = loaded.DocumentNamespace
	}
	if len(loaded.DefaultFormat) > 0 {
		target.DefaultFormat = loaded.DefaultFormat
	}
	if len(loaded.DefaultType) > 0 {
		target.DefaultType = loaded.DefaultType
	}
}

type gateway bool

// Global is the access point the rest of lockbom uses for settings.
var Global gateway

func (it gateway) ToolIdentity() string {
	config, _ := SummonSettings()
	return config.ToolIdentity
}

func (it gateway) DocumentNamespace() string {
	config, _ := SummonSettings()
	return config.DocumentNamespace
}

func (it gateway) DefaultFormat() string {
	config, _ := SummonSettings()
	return config.DefaultFormat
}

func (it gateway) DefaultPackageType() string {
	config, _ := SummonSettings()
	return config.DefaultType
}

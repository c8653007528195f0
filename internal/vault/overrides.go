package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kk-code-lab/newtab/internal/icons"
)

// IconOverridePlugin is the community plugin whose data drives icon
// overrides.
const IconOverridePlugin = "iconic"

type overrideItem struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type overrideRule struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	Enabled bool   `json:"enabled"`
	Match   string `json:"match"`
	Pattern string `json:"pattern"`
}

// overrideData holds the file entries of the plugin data file.
type overrideData struct {
	FileIcons map[string]overrideItem `json:"fileIcons"`
	FileRules []overrideRule          `json:"fileRules"`
}

// IconOverrides answers rulings and manual per-file lookups from the
// override plugin's data file. It is immutable once loaded apart from the
// compiled-regexp cache.
type IconOverrides struct {
	data    overrideData
	mu      sync.Mutex
	regexps map[string]*regexp.Regexp
}

func (v *Vault) overridesPath() string {
	return filepath.Join(v.ConfigDir(), "plugins", IconOverridePlugin, "data.json")
}

// loadIconOverrides returns nil, nil when the plugin is disabled or has no
// data yet.
func (v *Vault) loadIconOverrides() (*IconOverrides, error) {
	if !v.CommunityPluginEnabled(IconOverridePlugin) {
		return nil, nil
	}
	raw, err := os.ReadFile(v.overridesPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read icon overrides: %w", err)
	}
	return parseIconOverrides(raw)
}

func parseIconOverrides(raw []byte) (*IconOverrides, error) {
	var data overrideData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse icon overrides: %w", err)
	}
	return &IconOverrides{data: data, regexps: map[string]*regexp.Regexp{}}, nil
}

// IconOverrides returns the override source, or nil while the plugin is
// absent or disabled.
func (v *Vault) IconOverrides() icons.OverrideSource {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.overrides == nil {
		return nil
	}
	return v.overrides
}

// CheckRuling returns the first enabled rule of the given kind matching path.
// A rule with an invalid pattern aborts the lookup with an error.
func (o *IconOverrides) CheckRuling(kind icons.Kind, path string) (*icons.Override, error) {
	if kind != icons.KindFile {
		return nil, nil
	}
	for _, rule := range o.data.FileRules {
		if !rule.Enabled || rule.Pattern == "" {
			continue
		}
		ok, err := o.ruleMatches(rule, path)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		if ok {
			return &icons.Override{Icon: rule.Icon, Color: rule.Color}, nil
		}
	}
	return nil, nil
}

func (o *IconOverrides) FileItem(path string) (*icons.Override, error) {
	item, ok := o.data.FileIcons[path]
	if !ok {
		return nil, nil
	}
	return &icons.Override{Icon: item.Icon, Color: item.Color}, nil
}

func (o *IconOverrides) ruleMatches(rule overrideRule, path string) (bool, error) {
	switch rule.Match {
	case "", "glob":
		if !doublestar.ValidatePattern(rule.Pattern) {
			return false, doublestar.ErrBadPattern
		}
		return doublestar.Match(rule.Pattern, path)
	case "regex":
		re, err := o.compile(rule.Pattern)
		if err != nil {
			return false, err
		}
		return re.MatchString(path), nil
	default:
		return false, fmt.Errorf("unknown match type %q", rule.Match)
	}
}

func (o *IconOverrides) compile(pattern string) (*regexp.Regexp, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if re, ok := o.regexps[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	o.regexps[pattern] = re
	return re, nil
}

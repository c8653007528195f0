package vault

import (
	"encoding/json"
	"errors"
	"io/fs"
)

// Core plugins that are on in a fresh vault.
var defaultCorePlugins = map[string]bool{
	"bookmarks":     true,
	"daily-notes":   true,
	"file-explorer": true,
	"switcher":      true,
}

// CorePluginEnabled reads core-plugins.json, which is either a list of
// enabled ids or an {id: bool} object in older vaults.
func (v *Vault) CorePluginEnabled(id string) bool {
	var raw json.RawMessage
	if err := v.readConfigJSON("core-plugins.json", &raw); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			v.log.WithError(err).Warn("cannot read core plugin state")
		}
		return defaultCorePlugins[id]
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, enabled := range list {
			if enabled == id {
				return true
			}
		}
		return false
	}

	var flags map[string]bool
	if err := json.Unmarshal(raw, &flags); err == nil {
		return flags[id]
	}
	v.log.Warn("core-plugins.json has an unexpected shape")
	return defaultCorePlugins[id]
}

func (v *Vault) CommunityPluginEnabled(id string) bool {
	var list []string
	if err := v.readConfigJSON("community-plugins.json", &list); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			v.log.WithError(err).Warn("cannot read community plugin state")
		}
		return false
	}
	for _, enabled := range list {
		if enabled == id {
			return true
		}
	}
	return false
}

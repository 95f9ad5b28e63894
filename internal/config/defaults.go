package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Defaults are the last-used choices for issue creation.
type Defaults struct {
	Team     string
	Assignee string
	Project  string
	State    string
}

// LoadDefaults reads the defaults file. A missing or unreadable file yields empty defaults.
func LoadDefaults(path string) Defaults {
	v := viper.New()
	v.SetConfigType("json")
	if err := mergeConfigFile(v, path); err != nil {
		return Defaults{}
	}
	return Defaults{
		Team:     v.GetString(keyDefaultsTeam),
		Assignee: v.GetString(keyDefaultsUser),
		Project:  v.GetString(keyDefaultsProj),
		State:    v.GetString(keyDefaultsStatus),
	}
}

// SaveDefaults overwrites the defaults file with d. Empty fields are omitted.
func SaveDefaults(path string, d Defaults) error {
	v := viper.New()
	v.SetConfigType("json")
	for key, value := range map[string]string{
		keyDefaultsTeam:   d.Team,
		keyDefaultsUser:   d.Assignee,
		keyDefaultsProj:   d.Project,
		keyDefaultsStatus: d.State,
	} {
		if value != "" {
			v.Set(key, value)
		}
	}
	if err := writeConfig(v, path); err != nil {
		return fmt.Errorf("save defaults: %w", err)
	}
	return nil
}

// Merge returns d with every empty field filled from fallback.
func (d Defaults) Merge(fallback Defaults) Defaults {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return Defaults{
		Team:     pick(d.Team, fallback.Team),
		Assignee: pick(d.Assignee, fallback.Assignee),
		Project:  pick(d.Project, fallback.Project),
		State:    pick(d.State, fallback.State),
	}
}

package huntarr

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMalformed marks a response field that is present but cannot be decoded.
var ErrMalformed = errors.New("malformed field")

// SchedulePayload mirrors /api/scheduler/load and /api/scheduler/save: rule
// lists keyed by app-type bucket.
type SchedulePayload map[string][]RawRule

// RawRule is a schedule rule in wire form. Time is kept raw because the
// server may send either {"hour":H,"minute":M} or "HH:MM".
type RawRule struct {
	ID      string          `json:"id,omitempty"`
	Time    json.RawMessage `json:"time,omitempty"`
	Days    DayList         `json:"days"`
	Action  string          `json:"action"`
	App     string          `json:"app,omitempty"`
	AppType string          `json:"appType,omitempty"`
	Enabled *bool           `json:"enabled,omitempty"`
}

// TimeObject encodes a wall-clock time in the object form the server expects.
func TimeObject(hour, minute int) json.RawMessage {
	encoded, _ := json.Marshal(struct {
		Hour   int `json:"hour"`
		Minute int `json:"minute"`
	}{hour, minute})
	return encoded
}

// DayList accepts a JSON array, a comma separated string or an object of
// day→bool, and always marshals as an array.
type DayList []string

// UnmarshalJSON implements json.Unmarshaler.
func (d *DayList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*d = nil
		return nil
	}
	switch trimmed[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("days: %w: %v", ErrMalformed, err)
		}
		*d = list
	case '"':
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return fmt.Errorf("days: %w: %v", ErrMalformed, err)
		}
		var list []string
		for _, part := range strings.Split(joined, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
		*d = list
	case '{':
		var set map[string]bool
		if err := json.Unmarshal(data, &set); err != nil {
			return fmt.Errorf("days: %w: %v", ErrMalformed, err)
		}
		list := make([]string, 0, len(set))
		for day, on := range set {
			if on {
				list = append(list, day)
			}
		}
		sort.Strings(list)
		*d = list
	default:
		return fmt.Errorf("days: %w: unexpected %q", ErrMalformed, trimmed)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d DayList) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(d))
}

// SaveResponse mirrors the /api/scheduler/save reply.
type SaveResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// HuntInstanceList mirrors /api/movie-hunt/instances and /api/tv-hunt/instances.
type HuntInstanceList struct {
	Instances []HuntInstance `json:"instances"`
}

// HuntInstance is a Movie Hunt or TV Hunt instance with a stable numeric id.
type HuntInstance struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AppInstance is a standard app instance from /api/settings.
type AppInstance struct {
	InstanceID string `json:"instance_id"`
	Name       string `json:"name"`
	Enabled    *bool  `json:"enabled,omitempty"`
}

// GeneralSettings carries the timezone fields of the general section.
type GeneralSettings struct {
	Timezone          string `json:"timezone"`
	EffectiveTimezone string `json:"effective_timezone"`
}

// Settings is the subset of /api/settings huntsched uses.
type Settings struct {
	General GeneralSettings
	// Apps maps a standard app key (sonarr, radarr, ...) to its instances.
	Apps map[string][]AppInstance
}

// StandardAppKeys lists the settings sections that carry instances arrays.
var StandardAppKeys = []string{"sonarr", "radarr", "lidarr", "readarr", "whisparr", "eros"}

func decodeSettings(raw map[string]json.RawMessage) (Settings, error) {
	out := Settings{Apps: make(map[string][]AppInstance, len(StandardAppKeys))}
	if section, ok := raw["general"]; ok && len(section) > 0 && string(section) != "null" {
		if err := json.Unmarshal(section, &out.General); err != nil {
			return Settings{}, fmt.Errorf("settings general: %w: %v", ErrMalformed, err)
		}
	}
	for _, key := range StandardAppKeys {
		section, ok := raw[key]
		if !ok || len(section) == 0 || string(section) == "null" {
			continue
		}
		var app struct {
			Instances []AppInstance `json:"instances"`
		}
		if err := json.Unmarshal(section, &app); err != nil {
			return Settings{}, fmt.Errorf("settings %s: %w: %v", key, ErrMalformed, err)
		}
		out.Apps[key] = app.Instances
	}
	return out, nil
}

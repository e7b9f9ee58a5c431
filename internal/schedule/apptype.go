package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAppType is returned for bucket tokens outside the known set.
var ErrUnknownAppType = errors.New("unknown app type")

// AppType identifies a schedule bucket.
type AppType int

const (
	Global AppType = iota
	Sonarr
	Radarr
	Lidarr
	Readarr
	Whisparr
	Eros
	MovieHunt
	TVHunt
)

// AllAppTypes lists every bucket in display order.
var AllAppTypes = []AppType{Global, Sonarr, Radarr, Lidarr, Readarr, Whisparr, Eros, MovieHunt, TVHunt}

// StandardApps lists the apps whose instances come from /api/settings.
func StandardApps() []AppType {
	return []AppType{Sonarr, Radarr, Lidarr, Readarr, Whisparr, Eros}
}

// ParseAppType maps a bucket token to an AppType.
func ParseAppType(token string) (AppType, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "global", "":
		return Global, nil
	case "sonarr":
		return Sonarr, nil
	case "radarr":
		return Radarr, nil
	case "lidarr":
		return Lidarr, nil
	case "readarr":
		return Readarr, nil
	case "whisparr":
		return Whisparr, nil
	case "eros":
		return Eros, nil
	case "movie_hunt":
		return MovieHunt, nil
	case "tv_hunt":
		return TVHunt, nil
	}
	return Global, fmt.Errorf("%w: %q", ErrUnknownAppType, token)
}

// String returns the wire token.
func (a AppType) String() string {
	switch a {
	case Global:
		return "global"
	case Sonarr:
		return "sonarr"
	case Radarr:
		return "radarr"
	case Lidarr:
		return "lidarr"
	case Readarr:
		return "readarr"
	case Whisparr:
		return "whisparr"
	case Eros:
		return "eros"
	case MovieHunt:
		return "movie_hunt"
	case TVHunt:
		return "tv_hunt"
	}
	return fmt.Sprintf("apptype(%d)", int(a))
}

// Label returns the human name used in selectors and resolved addresses.
func (a AppType) Label() string {
	switch a {
	case Global:
		return "Global"
	case MovieHunt:
		return "Movie Hunt"
	case TVHunt:
		return "TV Hunt"
	case Sonarr, Radarr, Lidarr, Readarr, Whisparr, Eros:
		token := a.String()
		return strings.ToUpper(token[:1]) + token[1:]
	}
	return a.String()
}

// UsesNumericIDs reports whether instances are addressed by database id.
func (a AppType) UsesNumericIDs() bool {
	return a == MovieHunt || a == TVHunt
}

package schedule

import "testing"

type fakeLister map[AppType][]Instance

func (f fakeLister) Instances(app AppType) []Instance {
	return f[app]
}

func TestDescribe(t *testing.T) {
	dir := fakeLister{
		Sonarr:    {{ID: "abc", Name: "Main"}, {ID: "1", Name: "Anime"}},
		Radarr:    {{ID: "r-1", Name: "4K"}},
		MovieHunt: {{ID: "7", Name: "Films"}},
	}

	tests := []struct {
		address string
		want    string
	}{
		{"global", "All Apps (Global)"},
		{"", "All Apps (Global)"},
		{"sonarr::all", "All Sonarr Instances"},
		{"movie_hunt::all", "All Movie Hunt Instances"},
		{"movie_hunt::7", "Movie Hunt — Films"},
		{"movie_hunt::007", "Movie Hunt — Films"},
		{"movie_hunt::42", "Movie Hunt — Instance 42"},
		{"tv_hunt::3", "TV Hunt — Instance 3"},
		{"sonarr::abc", "Sonarr — Main"},
		{"sonarr::1", "Sonarr — Anime"},
		{"sonarr::0", "Sonarr — Main"},
		{"sonarr::9", "Sonarr — Instance 9"},
		{"sonarr-abc", "Sonarr — Main"},
		{"radarr::gone", "Radarr — Instance gone"},
		{"lidarr::x", "Lidarr — Instance x"},
		{"plex::1", "plex — Instance 1"},
		{"readarr", "Readarr"},
		{"sonarr::", "Sonarr"},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			if got := Describe(tt.address, dir); got != tt.want {
				t.Fatalf("Describe(%q) = %q, want %q", tt.address, got, tt.want)
			}
		})
	}
}

func TestDescribe_NilDirectory(t *testing.T) {
	if got := Describe("movie_hunt::42", nil); got != "Movie Hunt — Instance 42" {
		t.Fatalf("Describe = %q, want generic label", got)
	}
}

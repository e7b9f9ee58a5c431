package schedule

import "testing"

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		app      AppType
		selector string
		want     string
	}{
		{Sonarr, SelectorAll, "sonarr::all"},
		{Sonarr, "abc-123", "sonarr::abc-123"},
		{Radarr, "0", "radarr::0"},
		{MovieHunt, "7", "movie_hunt::7"},
		{TVHunt, SelectorAll, "tv_hunt::all"},
		{Eros, "x::y", "eros::x::y"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := Encode(tt.app, tt.selector)
			if got != tt.want {
				t.Fatalf("Encode(%v, %q) = %q, want %q", tt.app, tt.selector, got, tt.want)
			}
			addr := Decode(got)
			if addr.App != tt.app.String() || addr.Selector != tt.selector || !addr.HasSelector {
				t.Fatalf("Decode(%q) = %+v, want app=%s selector=%q", got, addr, tt.app, tt.selector)
			}
		})
	}
}

func TestEncode_GlobalIgnoresSelector(t *testing.T) {
	if got := Encode(Global, "3"); got != GlobalAddress {
		t.Fatalf("Encode(Global) = %q, want %q", got, GlobalAddress)
	}
}

func TestDecode_GlobalAndEmpty(t *testing.T) {
	for _, in := range []string{"", "global"} {
		addr := Decode(in)
		if !addr.IsGlobal() || addr.HasSelector || addr.Selector != "" {
			t.Fatalf("Decode(%q) = %+v, want global without selector", in, addr)
		}
	}
}

func TestDecode_Forms(t *testing.T) {
	tests := []struct {
		in          string
		app         string
		selector    string
		hasSelector bool
	}{
		{"movie_hunt::7", "movie_hunt", "7", true},
		{"tv_hunt::all", "tv_hunt", "all", true},
		{"sonarr-3", "sonarr", "3", true},
		{"sonarr::abc-def", "sonarr", "abc-def", true},
		{"movie_hunt", "movie_hunt", "", false},
		{"tv_hunt", "tv_hunt", "", false},
		{"radarr", "radarr", "", false},
		{"movie_hunt-4", "movie_hunt", "4", true},
		{"sonarr::", "sonarr", "", false},
		{"lidarr-", "lidarr", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			addr := Decode(tt.in)
			if addr.App != tt.app || addr.Selector != tt.selector || addr.HasSelector != tt.hasSelector {
				t.Fatalf("Decode(%q) = %+v, want app=%q selector=%q has=%v", tt.in, addr, tt.app, tt.selector, tt.hasSelector)
			}
		})
	}
}

func TestDecode_DoubleColonWinsOverDash(t *testing.T) {
	addr := Decode("whisparr::inst-2")
	if addr.App != "whisparr" || addr.Selector != "inst-2" {
		t.Fatalf("Decode = %+v, want whisparr / inst-2", addr)
	}
}

func TestParseAppType(t *testing.T) {
	for _, app := range AllAppTypes {
		got, err := ParseAppType(app.String())
		if err != nil || got != app {
			t.Fatalf("ParseAppType(%q) = %v, %v; want %v", app.String(), got, err, app)
		}
	}
	if _, err := ParseAppType("plex"); err == nil {
		t.Fatalf("ParseAppType(plex) returned nil error")
	}
}

func TestAppType_Label(t *testing.T) {
	tests := map[AppType]string{
		MovieHunt: "Movie Hunt",
		TVHunt:    "TV Hunt",
		Sonarr:    "Sonarr",
		Whisparr:  "Whisparr",
		Eros:      "Eros",
	}
	for app, want := range tests {
		if got := app.Label(); got != want {
			t.Fatalf("%v.Label() = %q, want %q", app, got, want)
		}
	}
}

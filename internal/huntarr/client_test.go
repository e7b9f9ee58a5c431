package huntarr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("", "")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultServerURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultServerURL)
	}

	u, err = parseBaseURL("example.com:1234/huntarr/?x=1#frag", "")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Path != "/huntarr" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("https://example.com", "/sub/")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != "https://example.com/sub" {
		t.Fatalf("url = %q, want https://example.com/sub", u.String())
	}
}

func TestClient_LoadAndSaveSchedules(t *testing.T) {
	t.Parallel()

	var saved SchedulePayload
	var gotContentType, gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/base/api/scheduler/load":
			_, _ = w.Write([]byte(`{
				"global": [{"id":"a","time":"07:05","days":["monday"],"action":"pause","app":"global"}],
				"sonarr": [{"id":"b","time":{"hour":9,"minute":30},"days":"tuesday, friday","action":"api-20","app":"sonarr::all","enabled":false}]
			}`))
		case r.Method == http.MethodPost && r.URL.Path == "/base/api/scheduler/save":
			gotContentType = r.Header.Get("Content-Type")
			if err := json.NewDecoder(r.Body).Decode(&saved); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"success":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "base", 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	payload, err := c.LoadSchedules(ctx)
	if err != nil {
		t.Fatalf("LoadSchedules returned error: %v", err)
	}
	if len(payload["global"]) != 1 || string(payload["global"][0].Time) != `"07:05"` {
		t.Fatalf("global bucket = %#v, want one rule with string time", payload["global"])
	}
	sonarr := payload["sonarr"]
	if len(sonarr) != 1 || strings.Join(sonarr[0].Days, ",") != "tuesday,friday" {
		t.Fatalf("sonarr bucket = %#v, want days split from string", sonarr)
	}
	if sonarr[0].Enabled == nil || *sonarr[0].Enabled {
		t.Fatalf("sonarr enabled = %v, want false", sonarr[0].Enabled)
	}

	out := SchedulePayload{"sonarr": {{ID: "b", Time: TimeObject(9, 30), Action: "enable", App: "sonarr::all", AppType: "sonarr"}}}
	if err := c.SaveSchedules(ctx, out); err != nil {
		t.Fatalf("SaveSchedules returned error: %v", err)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
	if got := string(saved["sonarr"][0].Time); got != `{"hour":9,"minute":30}` {
		t.Fatalf("saved time = %s, want object form", got)
	}
	if saved["sonarr"][0].Days == nil {
		t.Fatalf("saved days = nil, want empty array")
	}
	if !strings.HasPrefix(gotUserAgent, "huntsched/") {
		t.Fatalf("User-Agent = %q, want huntsched/*", gotUserAgent)
	}
}

func TestClient_SaveRejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"disk full"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "", 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	err = c.SaveSchedules(context.Background(), SchedulePayload{})
	if !errors.Is(err, ErrSaveRejected) {
		t.Fatalf("SaveSchedules error = %v, want ErrSaveRejected", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("SaveSchedules error = %q, want server message", err.Error())
	}
}

func TestClient_AbortTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c, err := NewClient(server.URL, "", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.LoadSchedules(context.Background())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("LoadSchedules error = %v, want ErrTimeout", err)
	}
}

func TestClient_FetchDirectorySources(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/settings":
			_, _ = w.Write([]byte(`{
				"general": {"timezone": "UTC", "effective_timezone": "Europe/Berlin"},
				"sonarr": {"instances": [{"instance_id": "abc", "name": "Main"}, {"name": "Legacy"}]},
				"radarr": null
			}`))
		case "/api/movie-hunt/instances":
			_, _ = w.Write([]byte(`{"instances":[{"id":7,"name":"Films"}]}`))
		case "/api/tv-hunt/instances":
			_, _ = w.Write([]byte(`{"instances":[{"name":"no id"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "", 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	settings, err := c.FetchSettings(ctx)
	if err != nil {
		t.Fatalf("FetchSettings returned error: %v", err)
	}
	if settings.General.EffectiveTimezone != "Europe/Berlin" {
		t.Fatalf("effective timezone = %q, want Europe/Berlin", settings.General.EffectiveTimezone)
	}
	if got := settings.Apps["sonarr"]; len(got) != 2 || got[0].InstanceID != "abc" || got[1].InstanceID != "" {
		t.Fatalf("sonarr instances = %#v, want 2 with ids abc and empty", got)
	}
	if _, ok := settings.Apps["radarr"]; ok {
		t.Fatalf("radarr present for null section, want absent")
	}

	movies, err := c.FetchMovieHuntInstances(ctx)
	if err != nil {
		t.Fatalf("FetchMovieHuntInstances returned error: %v", err)
	}
	if len(movies) != 1 || movies[0].ID != 7 {
		t.Fatalf("movie hunt instances = %#v, want id 7", movies)
	}

	_, err = c.FetchTVHuntInstances(ctx)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("FetchTVHuntInstances error = %v, want ErrMalformed", err)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/scheduler/load":
			_, _ = w.Write([]byte("{not-json"))
		case "/api/settings":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "", 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.LoadSchedules(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("LoadSchedules error = %v, want decode response error", err)
	}

	_, err = c.FetchSettings(context.Background())
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchSettings error = %v, want status 500 error", err)
	}
}

func TestDayList_UnmarshalForms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"array", `["monday","friday"]`, "monday,friday"},
		{"string", `"monday, friday"`, "monday,friday"},
		{"object", `{"monday":true,"friday":true,"sunday":false}`, "friday,monday"},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DayList
			if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
				t.Fatalf("Unmarshal returned error: %v", err)
			}
			if got := strings.Join(d, ","); got != tt.want {
				t.Fatalf("days = %q, want %q", got, tt.want)
			}
		})
	}

	var d DayList
	if err := json.Unmarshal([]byte(`42`), &d); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Unmarshal(42) error = %v, want ErrMalformed", err)
	}
}

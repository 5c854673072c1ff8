package comapeo

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"comapeo-cli/geojson"
)

func TestClient_Projects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/projects" {
			t.Errorf("Expected path /projects, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Expected Authorization 'Bearer test-token', got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("Expected User-Agent 'test-agent', got %q", got)
		}
		json.NewEncoder(w).Encode(ProjectList{Data: []Project{
			{ProjectID: "proj_abc123", Name: "Forest monitoring"},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", "test-agent")
	projects, err := client.Projects()
	if err != nil {
		t.Fatalf("Projects() error = %v", err)
	}
	if len(projects) != 1 || projects[0].ProjectID != "proj_abc123" {
		t.Errorf("Projects() = %+v, want one project with ID proj_abc123", projects)
	}
}

func TestClient_Observations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/proj_abc123/observations" {
			t.Errorf("Expected path /projects/proj_abc123/observations, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ObservationList{Data: []Observation{
			{
				DocID: "obs1",
				Lat:   -2.5,
				Lon:   -60.1,
				Tags:  map[string]any{"type": "camp"},
				Attachments: []Attachment{
					{DriveDiscoveryID: "d1", Type: "photo", Name: "n1", URL: "https://cloud.example.com/projects/proj_abc123/attachments/d1/photo/n1"},
				},
			},
			{DocID: "obs2", Deleted: true},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", "test-agent")
	observations, err := client.Observations("proj_abc123")
	if err != nil {
		t.Fatalf("Observations() error = %v", err)
	}
	if len(observations) != 2 {
		t.Fatalf("Expected 2 observations, got %d", len(observations))
	}
	if observations[0].DocID != "obs1" || observations[0].Lon != -60.1 {
		t.Errorf("Unexpected first observation: %+v", observations[0])
	}
	if len(observations[0].Attachments) != 1 || observations[0].Attachments[0].Name != "n1" {
		t.Errorf("Unexpected attachments: %+v", observations[0].Attachments)
	}
	if !observations[1].Deleted {
		t.Errorf("Expected second observation to be deleted")
	}
}

func TestClient_Observations_badStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"unauthorized"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token", "test-agent")
	if _, err := client.Observations("proj_abc123"); err == nil {
		t.Error("Expected an error, but got nil")
	} else if !strings.Contains(err.Error(), "401") {
		t.Errorf("Expected the error to carry the status, got %v", err)
	}
}

func TestClient_FetchAttachment(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/p1/attachments/d1/photo/n1" {
			t.Errorf("Expected attachment path, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("variant"); got != "preview" {
			t.Errorf("Expected variant=preview, got %q", got)
		}
		w.Write(payload)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", "test-agent")
	b, err := client.FetchAttachment("p1", "d1", "photo", "n1", "preview")
	if err != nil {
		t.Fatalf("FetchAttachment() error = %v", err)
	}
	if !bytes.Equal(b, payload) {
		t.Errorf("FetchAttachment() = %v, want %v", b, payload)
	}
}

func TestClient_FetchAttachment_noVariant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("Expected no query string, got %q", r.URL.RawQuery)
		}
		w.Write([]byte("audio-bytes"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", "test-agent")
	b, err := client.FetchAttachment("p1", "d1", "audio", "n1", "")
	if err != nil {
		t.Fatalf("FetchAttachment() error = %v", err)
	}
	if string(b) != "audio-bytes" {
		t.Errorf("FetchAttachment() = %q, want %q", b, "audio-bytes")
	}
}

func TestClient_FetchAttachment_notFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", "test-agent")
	if _, err := client.FetchAttachment("p1", "d1", "photo", "gone", ""); err == nil {
		t.Error("Expected an error, but got nil")
	}
}

func TestClient_Alerts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/p1/remoteDetectionAlerts" {
			t.Errorf("Expected alerts path, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(AlertList{Data: []Alert{
			{DocID: "alert1", SourceID: "src1"},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", "test-agent")
	alerts, err := client.Alerts("p1")
	if err != nil {
		t.Fatalf("Alerts() error = %v", err)
	}
	if len(alerts) != 1 || alerts[0].DocID != "alert1" {
		t.Errorf("Alerts() = %+v, want one alert with docId alert1", alerts)
	}
}

func TestClient_CreateAlert(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/projects/p1/remoteDetectionAlerts" {
			t.Errorf("Expected alerts path, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %q", got)
		}
		var alert Alert
		if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
			t.Errorf("Could not decode alert body: %v", err)
		}
		if alert.SourceID != "src1" || alert.Geometry.Type != "Point" {
			t.Errorf("Unexpected alert body: %+v", alert)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", "test-agent")
	err := client.CreateAlert("p1", Alert{
		DetectionDateStart: "2025-06-01T00:00:00Z",
		DetectionDateEnd:   "2025-06-02T00:00:00Z",
		SourceID:           "src1",
		Geometry:           geojson.NewPoint(-60.1, -2.5),
	})
	if err != nil {
		t.Errorf("CreateAlert() error = %v", err)
	}
}

func TestClient_Healthcheck(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthcheck" {
			t.Errorf("Expected path /healthcheck, got %s", r.URL.Path)
		}
	}))
	defer healthy.Close()
	if err := NewClient(healthy.URL, "t", "a").Healthcheck(); err != nil {
		t.Errorf("Healthcheck() error = %v", err)
	}

	sick := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer sick.Close()
	if err := NewClient(sick.URL, "t", "a").Healthcheck(); err == nil {
		t.Error("Expected an error from an unhealthy server, but got nil")
	}
}

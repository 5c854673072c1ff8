package comapeo

import "comapeo-cli/geojson"

// Attachment types accepted by the server.
const (
	AttachmentPhoto = "photo"
	AttachmentAudio = "audio"
)

// A Project is a single mapping project hosted on the server.
type Project struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name,omitempty"`
}

// An Observation is a single geotagged record in a project. Observations are
// read-only snapshots of what the server holds; this tool never mutates them.
type Observation struct {
	DocID       string         `json:"docId"`
	CreatedAt   string         `json:"createdAt,omitempty"`
	UpdatedAt   string         `json:"updatedAt,omitempty"`
	VersionID   string         `json:"versionId,omitempty"`
	Deleted     bool           `json:"deleted,omitempty"`
	Lat         float64        `json:"lat"`
	Lon         float64        `json:"lon"`
	Tags        map[string]any `json:"tags,omitempty"`
	Attachments []Attachment   `json:"attachments,omitempty"`
}

// An Attachment references a binary media item owned by an observation.
// The URL resolves to the same blob that DriveDiscoveryID, Type and Name
// identify; see ParseAttachmentURL.
type Attachment struct {
	DriveDiscoveryID string `json:"driveDiscoveryId"`
	Type             string `json:"type"`
	Name             string `json:"name"`
	URL              string `json:"url,omitempty"`
}

// An Alert is a remote detection alert recorded against a project.
type Alert struct {
	DocID              string           `json:"docId,omitempty"`
	CreatedAt          string           `json:"createdAt,omitempty"`
	UpdatedAt          string           `json:"updatedAt,omitempty"`
	DetectionDateStart string           `json:"detectionDateStart"`
	DetectionDateEnd   string           `json:"detectionDateEnd"`
	SourceID           string           `json:"sourceId"`
	Metadata           map[string]any   `json:"metadata,omitempty"`
	Geometry           geojson.Geometry `json:"geometry"`
}

// ProjectList is returned by GET /projects.
type ProjectList struct {
	Data []Project `json:"data"`
}

// ObservationList is returned by GET /projects/{projectId}/observations.
type ObservationList struct {
	Data []Observation `json:"data"`
}

// AlertList is returned by GET /projects/{projectId}/remoteDetectionAlerts.
type AlertList struct {
	Data []Alert `json:"data"`
}

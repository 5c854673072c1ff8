package comapeo

import (
	"fmt"
	"net/url"
	"strings"
)

// An AttachmentRef locates one attachment blob on a server, as embedded in
// the attachment URLs the observations endpoint hands out.
type AttachmentRef struct {
	ProjectID string
	DriveID   string
	Type      string
	Name      string
}

// ParseAttachmentURL extracts the reference embedded in a fully-qualified
// attachment URL, whose path must end with
//
//	/projects/{projectId}/attachments/{driveDiscoveryId}/{type}/{name}
//
// Anything that does not match that shape exactly is an error; there is no
// best-effort extraction from partial matches.
func ParseAttachmentURL(raw string) (AttachmentRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return AttachmentRef{}, fmt.Errorf("attachment URL %q: %w", raw, err)
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 6 {
		return AttachmentRef{}, fmt.Errorf("attachment URL %q: want path ending in /projects/{projectId}/attachments/{driveDiscoveryId}/{type}/{name}", raw)
	}
	segs = segs[len(segs)-6:]
	if segs[0] != "projects" || segs[2] != "attachments" ||
		segs[1] == "" || segs[3] == "" || segs[4] == "" || segs[5] == "" {
		return AttachmentRef{}, fmt.Errorf("attachment URL %q: want path ending in /projects/{projectId}/attachments/{driveDiscoveryId}/{type}/{name}", raw)
	}
	return AttachmentRef{
		ProjectID: segs[1],
		DriveID:   segs[3],
		Type:      segs[4],
		Name:      segs[5],
	}, nil
}

// AttachmentFilename returns the output filename for a downloaded
// attachment. An explicit output filename always wins; otherwise the
// attachment name is suffixed with ".jpg" for photos and ".mp3" for
// anything else.
func AttachmentFilename(name, mediaType, output string) string {
	if output != "" {
		return output
	}
	if mediaType == AttachmentPhoto {
		return name + ".jpg"
	}
	return name + ".mp3"
}

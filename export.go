package main

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"comapeo-cli/comapeo"
	"comapeo-cli/geojson"
	"github.com/google/uuid"
	"github.com/kr/pretty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fixed names used by the export pipeline.
const (
	geojsonName    = "comapeo_data.geojson"
	imagesDirName  = "images"
	scratchDirName = "comapeo_export_tmp"
)

type exportStats struct {
	observations, attachments, downloaded, failed int
}

// exportProject runs the export pipeline for one project:
//
//  1. fetch the full observation list (failure here aborts the export),
//  2. create a scratch workspace next to outputPath (failure aborts),
//  3. download every attachment of every observation concurrently into the
//     workspace, tolerating per-attachment failures,
//  4. assemble a GeoJSON FeatureCollection whose $photos lists only the
//     photos that downloaded, in each observation's own attachment order,
//  5. zip the GeoJSON document and the staged images into outputPath.
//
// The scratch workspace is removed on every exit path once it exists;
// removal failure is logged, never escalated.
func exportProject(client apiClient, log *zap.Logger, projectID, outputPath string) (exportStats, error) {
	var stats exportStats
	log = log.With(zap.String("project", projectID), zap.String("export_id", uuid.NewString()))

	observations, err := client.Observations(projectID)
	if err != nil {
		return stats, fmt.Errorf("fetch observations: %w", err)
	}
	stats.observations = len(observations)
	log.Info("fetched observations", zap.Int("count", len(observations)))
	if log.Core().Enabled(zapcore.DebugLevel) {
		for _, o := range observations {
			log.Debug("observation", zap.String("dump", pretty.Sprint(o)))
		}
	}

	scratch := filepath.Join(filepath.Dir(outputPath), scratchDirName)
	imagesDir := filepath.Join(scratch, imagesDirName)
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return stats, fmt.Errorf("create scratch workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			log.Warn("could not remove scratch workspace", zap.String("dir", scratch), zap.Error(err))
		}
	}()

	filenames := downloadAttachments(client, log, observations, imagesDir, &stats)

	fc := geojson.NewFeatureCollection()
	for i, o := range observations {
		photos := []string{}
		for j, a := range o.Attachments {
			if filenames[i][j] != "" && a.Type == comapeo.AttachmentPhoto {
				photos = append(photos, filenames[i][j])
			}
		}
		props := make(map[string]any, len(o.Tags)+4)
		for k, v := range o.Tags {
			props[k] = v
		}
		// $-prefixed keys are reserved for the export; they win over tags.
		props["$created"] = o.CreatedAt
		props["$modified"] = o.UpdatedAt
		props["$version"] = o.VersionID
		props["$photos"] = photos
		fc.Features = append(fc.Features, geojson.Feature{
			Type:       "Feature",
			ID:         o.DocID,
			Geometry:   geojson.NewPoint(o.Lon, o.Lat),
			Properties: props,
		})
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return stats, fmt.Errorf("encode GeoJSON: %w", err)
	}
	if err := os.WriteFile(filepath.Join(scratch, geojsonName), data, 0o644); err != nil {
		return stats, fmt.Errorf("write GeoJSON: %w", err)
	}

	if err := writeArchive(outputPath, scratch); err != nil {
		return stats, fmt.Errorf("write archive: %w", err)
	}
	log.Info("export complete", zap.String("archive", outputPath),
		zap.Int("observations", stats.observations), zap.Int("attachments", stats.downloaded))
	return stats, nil
}

// downloadAttachments fetches every attachment of every observation, one
// goroutine per attachment, staging the bytes in imagesDir. It returns the
// staged filename per attachment, parallel to the input; a failed download
// leaves its slot empty. The join waits for all downloads to settle, so one
// failure never cancels a sibling.
func downloadAttachments(client apiClient, log *zap.Logger, observations []comapeo.Observation, imagesDir string, stats *exportStats) [][]string {
	filenames := make([][]string, len(observations))
	var wg sync.WaitGroup
	for i, o := range observations {
		filenames[i] = make([]string, len(o.Attachments))
		for j, a := range o.Attachments {
			stats.attachments++
			wg.Add(1)
			go func(i, j int, docID string, att comapeo.Attachment) {
				defer wg.Done()
				name, err := downloadAttachment(client, att, imagesDir)
				if err != nil {
					log.Warn("attachment download failed",
						zap.String("observation", docID),
						zap.String("file", comapeo.AttachmentFilename(att.Name, att.Type, "")),
						zap.Error(err))
					return
				}
				filenames[i][j] = name
			}(i, j, o.DocID, a)
		}
	}
	wg.Wait()
	for i := range filenames {
		for _, name := range filenames[i] {
			if name != "" {
				stats.downloaded++
			} else {
				stats.failed++
			}
		}
	}
	return filenames
}

// downloadAttachment resolves one attachment reference and stages its bytes
// under the derived filename.
func downloadAttachment(client apiClient, att comapeo.Attachment, imagesDir string) (string, error) {
	ref, err := comapeo.ParseAttachmentURL(att.URL)
	if err != nil {
		return "", err
	}
	b, err := client.FetchAttachment(ref.ProjectID, ref.DriveID, ref.Type, ref.Name, "")
	if err != nil {
		return "", err
	}
	name := comapeo.AttachmentFilename(ref.Name, ref.Type, "")
	if err := os.WriteFile(filepath.Join(imagesDir, name), b, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

// writeArchive zips the staged export: the GeoJSON document at the archive
// root, then every staged file under images/ in directory order.
func writeArchive(outputPath, scratch string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	if err := archiveFile(zw, geojsonName, filepath.Join(scratch, geojsonName)); err != nil {
		return err
	}
	imagesDir := filepath.Join(scratch, imagesDirName)
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := archiveFile(zw, imagesDirName+"/"+e.Name(), filepath.Join(imagesDir, e.Name())); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return out.Close()
}

func archiveFile(zw *zip.Writer, entryName, srcPath string) error {
	w, err := zw.Create(entryName)
	if err != nil {
		return err
	}
	f, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

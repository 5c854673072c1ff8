package main

import "comapeo-cli/comapeo"

// apiClient is the slice of the CoMapeo client the export pipeline needs,
// split out so tests can substitute a fake server.
type apiClient interface {
	Observations(projectID string) ([]comapeo.Observation, error)
	FetchAttachment(projectID, driveID, mediaType, name, variant string) ([]byte, error)
}

var _ apiClient = (*comapeo.Client)(nil)

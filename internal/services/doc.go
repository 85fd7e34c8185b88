// Package services defines the shared error taxonomy for external metadata
// collaborators (MusicBrainz, Cover Art Archive, iTunes).
package services

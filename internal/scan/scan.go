// Package scan walks a music library directory, reads embedded audio tags,
// and builds the base catalog the enrichment run starts from.
package scan

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"

	"crate/internal/catalog"
	"crate/internal/logging"
)

// audioExtensions are the file types the scanner picks up.
var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".flac": {},
	".m4a":  {},
	".ogg":  {},
}

// TagReader reads embedded metadata from one audio file. The default
// implementation wraps dhowden/tag.
type TagReader interface {
	Read(path string) (tag.Metadata, error)
}

type fileTagReader struct{}

func (fileTagReader) Read(path string) (tag.Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return tag.ReadFrom(file)
}

// Scanner builds catalogs from music directories.
type Scanner struct {
	reader TagReader
	logger *slog.Logger
}

// New creates a Scanner. A nil reader uses the embedded-tag implementation.
func New(reader TagReader, logger *slog.Logger) *Scanner {
	if reader == nil {
		reader = fileTagReader{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{reader: reader, logger: logger}
}

// Scan walks root recursively and returns a catalog entry per audio file.
// Files whose tags cannot be parsed still get an entry; their metadata is
// simply empty and the enrichment run will flag them.
func (s *Scanner) Scan(root string) (*catalog.Collection, error) {
	collection := &catalog.Collection{Shape: catalog.ShapeDict}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		track := &catalog.Track{
			ID:               uuid.NewString(),
			Path:             path,
			OriginalFilename: filepath.Base(path),
		}

		if metadata, err := s.reader.Read(path); err != nil {
			s.logger.Warn("could not read tags",
				logging.String("path", path),
				logging.Error(err))
		} else {
			track.Artist = strings.TrimSpace(metadata.Artist())
			track.Title = strings.TrimSpace(metadata.Title())
			track.Album = strings.TrimSpace(metadata.Album())
			track.Genre = strings.TrimSpace(metadata.Genre())
			track.Year = metadata.Year()
		}

		collection.Entries = append(collection.Entries, &catalog.Entry{Key: path, Track: track})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	s.logger.Info("library scan complete",
		logging.String("root", root),
		logging.Int("tracks", collection.Len()))
	return collection, nil
}

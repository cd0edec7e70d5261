package media

import (
	"encoding/hex"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Subdirectories under the media base dir, one per content kind.
const (
	SubdirPosts    = "uploads"
	SubdirProfiles = "profile_pics"
	SubdirStories  = "story_pics"
)

// DefaultProfilePic is the stock avatar; it is shared between accounts and
// must never be deleted on avatar replacement.
const DefaultProfilePic = "default.jpg"

// ErrDisallowedType is returned by Save for files outside the extension
// allow-list.
var ErrDisallowedType = errors.New("file type not allowed")

var allowedExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"mp4": true, "mov": true, "avi": true,
}

var videoExtensions = map[string]bool{
	"mp4": true, "mov": true, "avi": true, "mkv": true, "webm": true,
}

// Store saves and deletes media blobs on local disk under a base directory.
type Store struct {
	baseDir string
}

// NewStore creates the media store, ensuring all subdirectories exist.
func NewStore(baseDir string) (*Store, error) {
	for _, sub := range []string{SubdirPosts, SubdirProfiles, SubdirStories} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, err
		}
	}
	return &Store{baseDir: baseDir}, nil
}

// Save writes an uploaded file into the given subdirectory under a random
// name, preserving the original extension. Files outside the allow-list are
// rejected with ErrDisallowedType before anything touches disk.
func (s *Store) Save(file *multipart.FileHeader, subdir string) (string, error) {
	ext := extension(file.Filename)
	if !allowedExtensions[ext] {
		return "", ErrDisallowedType
	}

	u := uuid.New()
	filename := hex.EncodeToString(u[:]) + "." + ext

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.baseDir, subdir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return filename, nil
}

// Delete removes a stored file. Callers treat failure as a non-fatal warning.
func (s *Store) Delete(subdir, filename string) error {
	return os.Remove(filepath.Join(s.baseDir, subdir, filename))
}

// IsVideo reports whether the filename carries a video extension.
func IsVideo(filename string) bool {
	return videoExtensions[extension(filename)]
}

// TypeOf returns the media type ("image" or "video") for a filename.
func TypeOf(filename string) string {
	if IsVideo(filename) {
		return "video"
	}
	return "image"
}

func extension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

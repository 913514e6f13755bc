package manifest

// FileName is the manifest file written into the output directory.
const FileName = "directory_structure.json"

// Entry types. The indexer only emits TypeFile; the others are accepted when
// reading manifests produced by older layouts.
const (
	TypeFile      = "file"
	TypeDirectory = "directory"
	TypeImage     = "image"
)

// ImageRef describes an image embedded in a document.
type ImageRef struct {
	Blurhash    string `json:"blurhash"`
	AspectRatio string `json:"aspect_ratio"`
	Name        string `json:"name"`
	Path        string `json:"path"`
}

// Entry is one manifest record.
type Entry struct {
	Path     string            `json:"path"`
	Type     string            `json:"type"`
	Size     uint64            `json:"size"`
	Name     string            `json:"name"`
	Date     string            `json:"date,omitempty"`
	Images   []ImageRef        `json:"images,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// HasDate reports whether the entry carries a date string.
func (e Entry) HasDate() bool {
	return e.Date != ""
}

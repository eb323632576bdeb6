package audiofile

import (
	"os"

	"github.com/dhowden/tag"
)

// Tags holds the subset of embedded tag metadata the library displays.
type Tags struct {
	Title  string
	Artist string
	Album  string
}

// ReadTags extracts tag metadata from an audio file. Best-effort: files
// without tags (or unreadable files) yield zero Tags, never an error.
func ReadTags(path string) Tags {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}
	}
	return Tags{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
	}
}

package audiofile

import "strings"

// audioExtensions is the accepted extension allow-list.
var audioExtensions = []string{".mp3", ".m4a", ".aac", ".wav", ".ogg", ".flac", ".opus"}

// audioMIMETypes is the accepted content-type allow-list, for declared
// types that don't use the "audio/" prefix consistently.
var audioMIMETypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp4":   true,
	"audio/aac":   true,
	"audio/wav":   true,
	"audio/ogg":   true,
	"audio/flac":  true,
	"audio/opus":  true,
	"audio/x-m4a": true,
	"audio/x-wav": true,
}

// IsAudioFile reports whether name has an accepted audio extension.
// Used during directory walks where no content type is known yet.
func IsAudioFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range audioExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// IsAudioUpload reports whether a picked file with a declared content
// type is acceptable. Both the extension and the content type must
// pass; an empty content type counts as passing.
func IsAudioUpload(name, contentType string) bool {
	if !IsAudioFile(name) {
		return false
	}
	if contentType == "" {
		return true
	}
	return strings.HasPrefix(contentType, "audio/") || audioMIMETypes[contentType]
}

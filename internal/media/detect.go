package media

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format identifies an audio container the codec can read.
type Format string

const (
	Unknown Format = ""
	WAV     Format = "wav"
	FLAC    Format = "flac"
	MP3     Format = "mp3"
	OGG     Format = "ogg"
)

var audioExts = map[string]Format{
	".wav":  WAV,
	".wave": WAV,
	".flac": FLAC,
	".mp3":  MP3,
	".ogg":  OGG,
	".oga":  OGG,
}

// SniffLen is the number of leading bytes Detect looks at.
const SniffLen = 12

// IsSupportedExt returns true if the extension is a readable audio format.
func IsSupportedExt(ext string) bool {
	_, ok := audioExts[strings.ToLower(ext)]
	return ok
}

// SupportedExtsList returns a human-readable list of readable audio formats.
func SupportedExtsList() string {
	return ".wav, .flac, .mp3, .ogg"
}

// FormatForExt maps a file extension to its format.
func FormatForExt(ext string) Format {
	return audioExts[strings.ToLower(ext)]
}

// Detect identifies the format from the leading bytes of the payload, falling
// back to the extension of name when the header is not recognized.
func Detect(header []byte, name string) Format {
	switch {
	case len(header) >= 12 && bytes.HasPrefix(header, []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return WAV
	case bytes.HasPrefix(header, []byte("fLaC")):
		return FLAC
	case bytes.HasPrefix(header, []byte("OggS")):
		return OGG
	case bytes.HasPrefix(header, []byte("ID3")):
		return MP3
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0 && header[1]&0x06 != 0:
		// MPEG frame sync; layer bits 00 is AAC ADTS, not MPEG audio
		return MP3
	}
	return FormatForExt(filepath.Ext(name))
}

package media

import (
	"strings"
	"testing"
)

func TestDetectSniffsHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		file   string
		want   Format
	}{
		{name: "wav", header: []byte("RIFF\x24\x00\x00\x00WAVEfmt "), file: "x.bin", want: WAV},
		{name: "riff but not wave", header: []byte("RIFF\x24\x00\x00\x00AVI LIST"), file: "x.bin", want: Unknown},
		{name: "flac", header: []byte("fLaC\x00\x00\x00\x22"), file: "", want: FLAC},
		{name: "ogg", header: []byte("OggS\x00\x02"), file: "upload", want: OGG},
		{name: "id3", header: []byte("ID3\x04\x00"), file: "", want: MP3},
		{name: "mpeg sync", header: []byte{0xFF, 0xFB, 0x90, 0x64}, file: "", want: MP3},
		{name: "adts is not mpeg", header: []byte{0xFF, 0xF1, 0x50, 0x80}, file: "", want: Unknown},
		{name: "adts mpeg-2", header: []byte{0xFF, 0xF9, 0x50, 0x80}, file: "tone.aac", want: Unknown},
		{name: "extension fallback", header: []byte("garbage"), file: "Tone.FLAC", want: FLAC},
		{name: "unknown", header: []byte("garbage"), file: "tone.aac", want: Unknown},
		{name: "empty", header: nil, file: "", want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.header, tt.file); got != tt.want {
				t.Fatalf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSupportedExtsListMatchesMap(t *testing.T) {
	list := SupportedExtsList()
	for _, ext := range []string{".wav", ".flac", ".mp3", ".ogg"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
	}
	if IsSupportedExt(".m4a") {
		t.Fatal("did not expect .m4a to be supported")
	}
}

package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/olivier-w/dualtone/internal/codec"
)

var invalidFilenameChars = regexp.MustCompile(`[\\/:*?"<>|#]`)

// sanitizeFilename replaces characters that are invalid (or awkward) in file
// names. '*' and '#' become 's' and 'h' so the name still spells the sequence.
func sanitizeFilename(name string) string {
	name = strings.NewReplacer("*", "s", "#", "h").Replace(name)
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if name == "" {
		return "dtmf.wav"
	}
	return name
}

// saveRecording encodes symbols into dir and returns the file name written. An
// existing file is never overwritten; a numeric suffix is added instead.
func saveRecording(enc *codec.Encoder, symbols []rune, dir string) (string, error) {
	base := sanitizeFilename(codec.FileName(symbols))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 0; i < 100; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("creating %s: %w", name, err)
		}
		if err := enc.WriteWAV(f, string(symbols)); err != nil {
			f.Close()
			os.Remove(path)
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("closing %s: %w", name, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("too many recordings named %q in %s", base, dir)
}

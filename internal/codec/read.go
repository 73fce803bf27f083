package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"

	"github.com/olivier-w/dualtone/internal/media"
)

// maxPrealloc caps buffer preallocation taken from header sample counts.
const maxPrealloc = 1 << 22

// Read decodes a WAV, FLAC, MP3 or OGG Vorbis payload. The format is sniffed
// from the leading bytes, with name's extension as a fallback. Only the first
// channel is kept.
func Read(r io.ReadSeeker, name string) (*Clip, error) {
	header := make([]byte, media.SniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding input: %w", err)
	}

	format := media.Detect(header[:n], name)
	var clip *Clip
	switch format {
	case media.WAV:
		clip, err = readWAV(r)
	case media.FLAC:
		clip, err = readFLAC(r)
	case media.MP3:
		clip, err = readMP3(r)
	case media.OGG:
		clip, err = readOGG(r)
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, name, media.SupportedExtsList())
	}
	if err != nil {
		return nil, err
	}
	clip.Format = format
	if len(clip.Samples) == 0 {
		return nil, ErrEmptyAudio
	}
	return clip, nil
}

func readWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: WAV encoding %d is not linear PCM", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	if channels < 1 || buf == nil {
		return nil, ErrEmptyAudio
	}
	bitDepth := int(dec.BitDepth)
	var scale, offset float64
	switch bitDepth {
	case 8:
		// 8-bit WAV is unsigned
		scale, offset = 128, 128
	case 16, 24, 32:
		scale = float64(int64(1) << (bitDepth - 1))
	default:
		return nil, fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedFormat, bitDepth)
	}

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := range samples {
		samples[i] = clamp((float64(buf.Data[i*channels]) - offset) / scale)
	}
	return &Clip{Samples: samples, SampleRate: int(dec.SampleRate), Channels: channels}, nil
}

func readFLAC(r io.Reader) (*Clip, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	scale := float64(int64(1) << (info.BitsPerSample - 1))
	samples := make([]float64, 0, min(info.NSamples, maxPrealloc))
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding FLAC frame: %w", err)
		}
		for _, s := range frame.Subframes[0].Samples {
			samples = append(samples, clamp(float64(s)/scale))
		}
	}
	return &Clip{Samples: samples, SampleRate: int(info.SampleRate), Channels: int(info.NChannels)}, nil
}

// mp3Title reads the ID3v2 title, if any, and rewinds r.
func mp3Title(r io.ReadSeeker) string {
	var title string
	tag, err := id3v2.ParseReader(r, id3v2.Options{Parse: true, ParseFrames: []string{"Title"}})
	if err == nil {
		title = strings.TrimSpace(tag.Title())
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return ""
	}
	return title
}

func readMP3(r io.ReadSeeker) (*Clip, error) {
	title := mp3Title(r)

	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}

	// go-mp3 always produces 16-bit little-endian stereo
	const frameSize = 4
	samples := make([]float64, len(raw)/frameSize)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(raw[i*frameSize:]))
		samples[i] = float64(s) / 32768
	}
	return &Clip{Samples: samples, SampleRate: dec.SampleRate(), Channels: 2, Title: title}, nil
}

func readOGG(r io.Reader) (*Clip, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := reader.Channels()
	samples := make([]float64, 0, min(max(reader.Length(), 0), maxPrealloc))
	chunk := make([]float32, 4096*channels)
	for {
		n, err := reader.Read(chunk)
		for i := 0; i+channels <= n; i += channels {
			samples = append(samples, clamp(float64(chunk[i])))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding OGG: %w", err)
		}
	}
	return &Clip{Samples: samples, SampleRate: reader.SampleRate(), Channels: channels}, nil
}

func clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

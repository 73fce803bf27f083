package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olivier-w/dualtone/internal/codec"
	"github.com/olivier-w/dualtone/internal/dsp"
	"github.com/olivier-w/dualtone/internal/keypad"
	"github.com/olivier-w/dualtone/internal/media"
	"github.com/olivier-w/dualtone/internal/visualizer"
)

type errorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
}

type decodeResponse struct {
	RequestID  string            `json:"request_id"`
	Text       string            `json:"decoded_text"`
	Found      bool              `json:"found"`
	Detections []codec.Detection `json:"detections"`
	Windows    int               `json:"windows"`
	Format     media.Format      `json:"format"`
	SampleRate int               `json:"sample_rate"`
	Title      string            `json:"title,omitempty"`
}

// toneResponse is the chart data for one key, shared by /tone and /ws.
type toneResponse struct {
	Symbol   string      `json:"symbol"`
	LowHz    float64     `json:"low_hz"`
	HighHz   float64     `json:"high_hz"`
	Waveform []dsp.Point `json:"waveform"`
	Spectrum []dsp.Bin   `json:"spectrum"`
	PeakHz   int         `json:"peak_hz"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("request_id", requestID(r.Context())),
			zap.Int("status", status),
			zap.Error(err))
	}
	writeJSON(w, status, errorResponse{RequestID: requestID(r.Context()), Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "server_id": s.id})
}

// handleEncode renders the form field "text" as a WAV attachment.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseForm(); err != nil {
		if isTooLarge(err) {
			s.fail(w, r, http.StatusRequestEntityTooLarge,
				fmt.Errorf("form exceeds %d bytes", s.cfg.Server.MaxUploadBytes))
			return
		}
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("reading form: %w", err))
		return
	}
	symbols, err := keypad.Parse(r.FormValue("text"))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	if len(symbols) == 0 {
		s.fail(w, r, http.StatusBadRequest, codec.ErrNoSymbols)
		return
	}

	data, err := s.encoder.EncodeWAV(string(symbols))
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", codec.FileName(symbols)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleDecode reads the multipart field "file" and returns the symbols heard
// in it.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.Server.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		if isTooLarge(err) {
			s.fail(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", limit))
			return
		}
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("reading form: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("missing file: %w", err))
		return
	}
	defer file.Close()

	clip, err := codec.Read(file, hdr.Filename)
	switch {
	case errors.Is(err, codec.ErrUnsupportedFormat):
		s.fail(w, r, http.StatusUnsupportedMediaType, err)
		return
	case err != nil:
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Server.DecodeTimeout)
	defer cancel()
	res, err := s.decode(ctx, clip, hdr.Filename, hdr.Size)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.fail(w, r, http.StatusGatewayTimeout, fmt.Errorf("decode timed out after %v", s.cfg.Server.DecodeTimeout))
			return
		}
		if errors.Is(err, context.Canceled) {
			// client went away
			return
		}
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, decodeResponse{
		RequestID:  requestID(r.Context()),
		Text:       res.Text,
		Found:      res.Found(),
		Detections: res.Detections,
		Windows:    res.Windows,
		Format:     clip.Format,
		SampleRate: clip.SampleRate,
		Title:      clip.Title,
	})
}

// isTooLarge reports whether err came from the MaxBytesReader guarding the
// body. Some multipart paths flatten the error to text.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

// decode waits for a free slot, registers the job and runs the decoder.
func (s *Server) decode(ctx context.Context, clip *codec.Clip, name string, size int64) (*codec.Result, error) {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.slots.Release(1)

	j := job{ID: uuid.NewString(), File: name, Bytes: size, Started: time.Now()}
	s.inflight.add(j)
	defer s.inflight.remove(j.ID)

	res, err := s.decoder.Decode(ctx, clip)
	if err != nil {
		return nil, err
	}
	s.log.Info("decoded",
		zap.String("request_id", requestID(ctx)),
		zap.String("job_id", j.ID),
		zap.String("file", name),
		zap.String("format", string(clip.Format)),
		zap.Duration("audio", clip.Duration()),
		zap.Int("windows", res.Windows),
		zap.String("text", res.Text),
		zap.Duration("elapsed", time.Since(j.Started)),
	)
	return res, nil
}

func (s *Server) handleInflight(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"jobs": s.inflight.list()})
}

// handleTone serves the chart data for one key. ?periods= overrides how many
// cycles of the low tone the waveform keeps.
func (s *Server) handleTone(w http.ResponseWriter, r *http.Request) {
	periods := s.cfg.Display.Periods
	if v := r.URL.Query().Get("periods"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, r, http.StatusBadRequest, fmt.Errorf("periods %q must be a non-negative integer", v))
			return
		}
		periods = n
	}

	resp, err := s.tone(r.PathValue("symbol"), periods)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, keypad.ErrUnknownSymbol) {
			status = http.StatusNotFound
		}
		s.fail(w, r, status, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) tone(symbol string, periods int) (*toneResponse, error) {
	r, size := utf8.DecodeRuneInString(symbol)
	if size == 0 || size != len(symbol) {
		return nil, fmt.Errorf("%w: %q", keypad.ErrUnknownSymbol, symbol)
	}
	key, err := keypad.Find(r)
	if err != nil {
		return nil, err
	}

	t, _, err := visualizer.Build(key.Pair(), s.cfg.Display.Duration.Seconds(), periods, s.cfg.Display.MaxFreqHz)
	if err != nil {
		return nil, err
	}
	resp := &toneResponse{
		Symbol:   key.String(),
		LowHz:    t.Pair.Low,
		HighHz:   t.Pair.High,
		Waveform: t.Waveform,
		Spectrum: t.Spectrum,
	}
	if i := dsp.Peak(t.Spectrum); i >= 0 {
		resp.PeakHz = t.Spectrum[i].FrequencyHz
	}
	return resp, nil
}

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/lacquerai/casegen/internal/dataset"
)

// RowMessage carries one data row over the stream endpoint.
type RowMessage struct {
	Type  string          `json:"type"`
	Index int             `json:"index"`
	Data  json.RawMessage `json:"data"`
}

// DoneMessage ends a stream. Error is set when the stream stopped early.
type DoneMessage struct {
	Type  string `json:"type"`
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}

const (
	MessageRow   = "row"
	MessageDone  = "done"
	MessageError = "error"
)

const streamWriteWait = 10 * time.Second

// getData returns the data file as a JSON array of row objects. Keys keep
// the file's column order.
func (s *Server) getData(w http.ResponseWriter, r *http.Request) {
	table, err := dataset.ReadFile(s.config.DataPath)
	if err != nil {
		s.writeDataError(w, err)
		return
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range table.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		obj, err := encodeRow(table.Headers, row)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		buf.Write(obj)
	}
	buf.WriteByte(']')

	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

// getSummary returns the aggregate counts shown on the dashboard cards.
func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	table, err := dataset.ReadFile(s.config.DataPath)
	if err != nil {
		s.writeDataError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dataset.Summarize(table))
}

// streamData sends the data file over a WebSocket, one row per message.
// The optional rate query parameter paces the stream in rows per second.
func (s *Server) streamData(w http.ResponseWriter, r *http.Request) {
	limiter, err := s.streamLimiter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	table, err := dataset.ReadFile(s.config.DataPath)
	if err != nil {
		s.writeDataError(w, err)
		return
	}

	// Upgrade to WebSocket
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	send := func(msg any) error {
		conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		return conn.WriteJSON(msg)
	}

	for i, row := range table.Rows {
		if limiter != nil {
			if err := limiter.Wait(r.Context()); err != nil {
				return
			}
		}
		obj, err := encodeRow(table.Headers, row)
		if err != nil {
			send(DoneMessage{Type: MessageError, Rows: i, Error: err.Error()})
			return
		}
		if err := send(RowMessage{Type: MessageRow, Index: i, Data: obj}); err != nil {
			log.Debug().Err(err).Int("sent", i).Msg("Stream client went away")
			return
		}
		s.metrics.streamed.Inc()
	}

	if err := send(DoneMessage{Type: MessageDone, Rows: len(table.Rows)}); err != nil {
		return
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(streamWriteWait))
}

// streamLimiter returns nil for an unpaced stream.
func (s *Server) streamLimiter(r *http.Request) (*rate.Limiter, error) {
	perSecond := s.config.StreamRate
	if q := r.URL.Query().Get("rate"); q != "" {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid rate %q: want a non-negative number of rows per second", q)
		}
		perSecond = v
	}
	if perSecond <= 0 {
		return nil, nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1), nil
}

// downloadData serves the raw data file under its own base name.
func (s *Server) downloadData(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]
	if name != filepath.Base(s.config.DataPath) {
		writeError(w, http.StatusNotFound, fmt.Errorf("dataset '%s' not found", name))
		return
	}

	f, err := os.Open(s.config.DataPath)
	if err != nil {
		s.writeDataError(w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", dataset.ContentType)
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// healthCheck returns server health status
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	_, err := os.Stat(s.config.DataPath)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"data_path":      s.config.DataPath,
		"data_available": err == nil,
		"uptime":         time.Since(s.started).Round(time.Second).String(),
		"timestamp":      time.Now(),
	})
}

func (s *Server) writeDataError(w http.ResponseWriter, err error) {
	if errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotFound, fmt.Errorf("data file %s not found; run 'casegen generate' first", s.config.DataPath))
		return
	}
	log.Error().Err(err).Str("path", s.config.DataPath).Msg("Failed to read data file")
	writeError(w, http.StatusInternalServerError, err)
}

// encodeRow renders row as a JSON object with keys in headers order.
func encodeRow(headers []string, row dataset.Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(row[h])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

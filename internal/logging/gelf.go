package logging

import (
	"fmt"
	"log/slog"

	"github.com/Graylog2/go-gelf/gelf"
)

// GraylogSink ships log records to a Graylog GELF UDP input.
type GraylogSink struct {
	writer *gelf.Writer
}

// NewGraylogSink connects a GELF writer to address ("host:port").
func NewGraylogSink(address string) (*GraylogSink, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, fmt.Errorf("failed to create GELF writer: %w", err)
	}
	w.Facility = "starinfo"
	return &GraylogSink{writer: w}, nil
}

// Handler returns an slog handler that writes JSON records to Graylog.
func (s *GraylogSink) Handler(level string) slog.Handler {
	return slog.NewJSONHandler(s.writer, handlerOptions(parseLevel(level)))
}

func (s *GraylogSink) Close() error {
	return s.writer.Close()
}

// Package slog provides log/slog decorators for imgswap services.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/imgswap"
)

// Ensure LoggingParser implements imgswap.Parser.
var _ imgswap.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with debug logging.
type LoggingParser struct {
	next   imgswap.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next imgswap.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the operation.
func (p *LoggingParser) Parse(text string) (doc *imgswap.Document, err error) {
	defer func(begin time.Time) {
		nodes := 0
		doc.Walk(func(*imgswap.Node) { nodes++ })
		p.logger.Debug("parse",
			"bytes", len(text),
			"nodes", nodes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(text)
}

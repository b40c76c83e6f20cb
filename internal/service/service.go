package service

import (
	"errors"
	"time"

	"github.com/danmuck/bitsctl/internal/observability"
	"github.com/danmuck/bitsctl/internal/protocol"
	"github.com/danmuck/bitsctl/internal/protocol/packet"
	"github.com/rs/zerolog"
)

// Report is the answer to both transmission queries plus the decoded tree.
type Report struct {
	Hex        string        `json:"hex"`
	Bits       int           `json:"bits"`
	Packets    int           `json:"packets"`
	VersionSum uint64        `json:"version_sum"`
	Value      *uint64       `json:"value"`
	Stats      packet.Stats  `json:"stats"`
	Tree       []packet.Node `json:"tree"`
}

// Service runs the decode pipeline under fixed limits, logging and recording
// metrics for every transmission.
type Service struct {
	limits protocol.Limits
	logger zerolog.Logger
}

func New(limits protocol.Limits, logger zerolog.Logger) *Service {
	return &Service{limits: limits, logger: logger}
}

func (s *Service) Limits() protocol.Limits {
	return s.limits
}

// Transmission runs the pipeline for one hex transmission.
func (s *Service) Transmission(hex string) (*protocol.Transmission, error) {
	start := time.Now()
	tr, err := protocol.Parse(hex, s.limits)
	elapsed := time.Since(start)
	if err != nil {
		outcome := Outcome(err)
		observability.RecordDecode(outcome, 0, elapsed)
		s.logger.Debug().Err(err).Str("outcome", outcome).Int("digits", len(hex)).Msg("decode failed")
		return nil, err
	}

	stats := tr.Stats()
	observability.RecordDecode(observability.OutcomeOK, stats.Packets, elapsed)
	s.logger.Debug().
		Int("bits", tr.Bits()).
		Int("packets", stats.Packets).
		Int("depth", stats.Depth).
		Dur("elapsed", elapsed).
		Msg("decoded transmission")
	return tr, nil
}

// Decode answers both queries for one hex transmission. A transmission of
// padding only yields a report with a nil Value.
func (s *Service) Decode(hex string) (Report, error) {
	tr, err := s.Transmission(hex)
	if err != nil {
		return Report{}, err
	}

	packets := tr.Packets()
	report := Report{
		Hex:        tr.Hex(),
		Bits:       tr.Bits(),
		Packets:    len(packets),
		VersionSum: tr.VersionSum(),
		Stats:      tr.Stats(),
		Tree:       packet.Tree(packets),
	}
	if v, err := tr.Evaluate(); err == nil {
		report.Value = &v
	}
	return report, nil
}

// Outcome classifies a pipeline error for metrics and status mapping.
func Outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, protocol.ErrEmptyInput),
		errors.Is(err, protocol.ErrOddLength),
		errors.Is(err, protocol.ErrInvalidHex),
		errors.Is(err, protocol.ErrInputTooLarge):
		return observability.OutcomeBadInput
	default:
		return observability.OutcomeDecode
	}
}

package console

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vobiz-console/internal/session"
	"vobiz-console/pkg/logger"

	"github.com/google/uuid"
)

// Repository stores panel log entries.
//
// Entries are never updated. Clear drops all of them at once.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	Clear(ctx context.Context) error
}

var (
	ErrInvalidEntry = errors.New("console: invalid entry")
	ErrNotFound     = errors.New("console: entry not found")
)

// Log is the timestamped, categorized log shown to the user. Every entry is
// mirrored to the process logger.
type Log struct {
	repo  Repository
	clock func() time.Time
	log   *slog.Logger
}

func NewLog(repo Repository, l *slog.Logger) *Log {
	if l == nil {
		l = logger.Discard()
	}
	return &Log{repo: repo, clock: time.Now, log: l.With("component", "console")}
}

func (s *Log) Append(ctx context.Context, e Entry) error {
	if s.repo == nil {
		return errors.New("console: repository not configured")
	}
	if !validLevel(e.Level) {
		return ErrInvalidEntry
	}
	if strings.TrimSpace(e.Message) == "" {
		return ErrInvalidEntry
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock()
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return err
	}

	s.log.Log(ctx, slogLevel(e.Level), e.Message, "ui_level", string(e.Level), "entry_id", e.ID)
	return nil
}

// Write records msg at level.
func (s *Log) Write(ctx context.Context, level session.LogLevel, msg string) error {
	return s.Append(ctx, Entry{Level: level, Message: msg})
}

func (s *Log) Entries(ctx context.Context) ([]Entry, error) {
	if s.repo == nil {
		return nil, errors.New("console: repository not configured")
	}
	return s.repo.List(ctx)
}

func (s *Log) Clear(ctx context.Context) error {
	if s.repo == nil {
		return errors.New("console: repository not configured")
	}
	return s.repo.Clear(ctx)
}

func slogLevel(l session.LogLevel) slog.Level {
	switch l {
	case session.LogError:
		return slog.LevelError
	case session.LogWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

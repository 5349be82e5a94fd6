// Package gate keeps the fastest recording per key.
//
// The check-then-write in TrySave is not atomic across callers: two writers
// racing on the same key can both pass the comparison. Callers that need
// that guarantee must serialize TrySave per key.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rcliao/ghost-replay/internal/codec"
	"github.com/rcliao/ghost-replay/internal/model"
	"github.com/rcliao/ghost-replay/internal/store"
)

// Gate decides whether a new recording replaces the stored one.
type Gate struct {
	store store.BlobStore
	log   *slog.Logger
}

// New returns a gate over s. A nil logger uses slog.Default().
func New(s store.BlobStore, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	return &Gate{store: s, log: log}
}

// PeekStoredTime returns the stored recording's total time, reading only its
// metadata record. Any failure (invalid key, missing, unreadable or corrupt)
// reports ok=false, which compares as +infinity. A stored time that is not a
// valid duration counts as corrupt.
func (g *Gate) PeekStoredTime(ctx context.Context, key string) (total float64, ok bool) {
	if err := codec.ValidateID(key); err != nil {
		g.log.Debug("peek: invalid key", "key", key, "error", err)
		return 0, false
	}
	rc, err := g.store.Open(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			g.log.Debug("peek: treating unreadable recording as absent", "key", key, "error", err)
		}
		return 0, false
	}
	defer rc.Close()

	id, total, err := codec.DecodeHeader(rc)
	if err == nil {
		err = model.Trajectory{ID: id, TotalTime: total}.Validate()
	}
	if err != nil {
		g.log.Debug("peek: treating corrupt recording as absent", "key", key, "error", err)
		return 0, false
	}
	if id != key {
		g.log.Debug("peek: stored id differs from key", "key", key, "id", id)
	}
	return total, true
}

// TrySave stores t under t.ID iff nothing valid is stored or t is strictly
// faster. Equal times keep the existing recording.
func (g *Gate) TrySave(ctx context.Context, t model.Trajectory) (bool, error) {
	if err := codec.ValidateID(t.ID); err != nil {
		return false, err
	}
	if err := t.Validate(); err != nil {
		return false, err
	}

	stored, ok := g.PeekStoredTime(ctx, t.ID)
	if ok && !(t.TotalTime < stored) {
		g.log.Debug("recording rejected", "key", t.ID, "time", t.TotalTime, "best", stored)
		return false, nil
	}

	// Encode fully before the single write so a failure cannot leave a
	// partial recording behind.
	data := codec.AppendEncode(make([]byte, 0, 32+len(t.Samples)*64), t)
	if err := g.store.Write(ctx, t.ID, data); err != nil {
		return false, fmt.Errorf("save recording: %w", err)
	}

	g.log.Info("saved recording", "key", t.ID, "time", t.TotalTime, "samples", len(t.Samples), "bytes", len(data))
	return true, nil
}

// Load returns the stored recording for key. A missing key reports ok=false
// with a nil error; malformed data returns a *codec.FormatError.
func (g *Gate) Load(ctx context.Context, key string) (t model.Trajectory, ok bool, err error) {
	if err := codec.ValidateID(key); err != nil {
		return model.Trajectory{}, false, err
	}
	data, err := g.store.Read(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return model.Trajectory{}, false, nil
	}
	if err != nil {
		return model.Trajectory{}, false, fmt.Errorf("load recording: %w", err)
	}

	t, err = codec.Decode(string(data))
	if err != nil {
		return model.Trajectory{}, false, fmt.Errorf("load recording %s: %w", key, err)
	}
	return t, true, nil
}

// Remove deletes the stored recording for key.
func (g *Gate) Remove(ctx context.Context, key string) error {
	if err := codec.ValidateID(key); err != nil {
		return err
	}
	if err := g.store.Delete(ctx, key); err != nil {
		return err
	}
	g.log.Info("removed recording", "key", key)
	return nil
}

// Entry is one stored key with its best time.
type Entry struct {
	Key     string  `json:"key"`
	Time    float64 `json:"time,omitempty"`
	Corrupt bool    `json:"corrupt,omitempty"`
}

// Best lists every stored key with its peeked time.
func (g *Gate) Best(ctx context.Context) ([]Entry, error) {
	keys, err := g.store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		total, ok := g.PeekStoredTime(ctx, k)
		entries = append(entries, Entry{Key: k, Time: total, Corrupt: !ok})
	}
	return entries, nil
}

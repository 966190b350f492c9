// internal/ledger/persist.go
//
// Persistence boundary for the ledger.
// State is stored as two independent flat JSON records:
//   - "gameStats":    field name → counter value
//   - "achievements": achievement id → unlocked flag
//
// Absent records mean defaults. Partial or malformed records are merged over
// defaults field by field; a field that does not decode is skipped, the rest
// still apply.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/store"
)

const (
	statsKey        = "gameStats"
	achievementsKey = "achievements"
)

// Persister loads and saves ledger snapshots.
type Persister interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	Erase(ctx context.Context) error
}

// KVPersister stores snapshots in a key-value store.
type KVPersister struct {
	kv store.Store
}

// NewKVPersister wraps kv.
func NewKVPersister(kv store.Store) *KVPersister {
	return &KVPersister{kv: kv}
}

// Load reads both records and merges them over defaults.
func (p *KVPersister) Load(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Counters: DefaultCounters(), Achievements: map[string]bool{}}

	raw, ok, err := p.kv.Get(ctx, statsKey)
	if err != nil {
		return snap, fmt.Errorf("load %s: %w", statsKey, err)
	}
	if ok {
		snap.Counters = mergeCounters(snap.Counters, raw)
	}

	raw, ok, err = p.kv.Get(ctx, achievementsKey)
	if err != nil {
		return snap, fmt.Errorf("load %s: %w", achievementsKey, err)
	}
	if ok {
		snap.Achievements = decodeFlags(raw)
	}
	return snap, nil
}

// Save writes both records. The first failure is returned.
func (p *KVPersister) Save(ctx context.Context, s Snapshot) error {
	stats, err := json.Marshal(s.Counters)
	if err != nil {
		return err
	}
	if err := p.kv.Put(ctx, statsKey, stats); err != nil {
		return fmt.Errorf("save %s: %w", statsKey, err)
	}
	flags, err := json.Marshal(s.Achievements)
	if err != nil {
		return err
	}
	if err := p.kv.Put(ctx, achievementsKey, flags); err != nil {
		return fmt.Errorf("save %s: %w", achievementsKey, err)
	}
	return nil
}

// Erase removes both records.
func (p *KVPersister) Erase(ctx context.Context) error {
	return p.kv.Delete(ctx, statsKey, achievementsKey)
}

// mergeCounters applies each field of raw over base independently.
func mergeCounters(base Counters, raw []byte) Counters {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		log.Warn().Err(err).Str("record", statsKey).Msg("unreadable record, using defaults")
		return base
	}
	for name, v := range fields {
		one, _ := json.Marshal(map[string]json.RawMessage{name: v})
		next := base
		if err := json.Unmarshal(one, &next); err != nil {
			log.Warn().Err(err).Str("record", statsKey).Str("field", name).Msg("skipping field")
			continue
		}
		base = next
	}
	return base
}

func decodeFlags(raw []byte) map[string]bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		log.Warn().Err(err).Str("record", achievementsKey).Msg("unreadable record, using defaults")
		return map[string]bool{}
	}
	out := make(map[string]bool, len(fields))
	for id, v := range fields {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			continue
		}
		out[id] = b
	}
	return out
}

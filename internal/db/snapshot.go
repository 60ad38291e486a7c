package db

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// snapshot is the durable serialization of the emulator's entire state.
//
// Counters are stored explicitly rather than recomputed on load; a
// hand-edited snapshot must keep them at or above the highest identity
// in the matching collection or risk identity collisions.
type snapshot struct {
	Periods       []periodRow  `json:"periods"`
	Entries       []entryRow   `json:"entries"`
	Comments      []commentRow `json:"comments"`
	NextPeriodID  int64        `json:"next_period_id"`
	NextEntryID   int64        `json:"next_entry_id"`
	NextCommentID int64        `json:"next_comment_id"`
}

func snapshotFrom(s *memStore) *snapshot {
	return &snapshot{
		Periods:       s.periods,
		Entries:       s.entries,
		Comments:      s.comments,
		NextPeriodID:  s.nextPeriodID,
		NextEntryID:   s.nextEntryID,
		NextCommentID: s.nextCommentID,
	}
}

// store rebuilds a memStore from the snapshot. Nil collections (absent
// fields in a hand-written file) become empty slices; counters below 1
// are reseeded.
func (sn *snapshot) store() *memStore {
	s := &memStore{
		periods:       sn.Periods,
		entries:       sn.Entries,
		comments:      sn.Comments,
		nextPeriodID:  sn.NextPeriodID,
		nextEntryID:   sn.NextEntryID,
		nextCommentID: sn.NextCommentID,
	}
	if s.periods == nil {
		s.periods = []periodRow{}
	}
	if s.entries == nil {
		s.entries = []entryRow{}
	}
	if s.comments == nil {
		s.comments = []commentRow{}
	}
	if s.nextPeriodID < 1 {
		s.nextPeriodID = 1
	}
	if s.nextEntryID < 1 {
		s.nextEntryID = 1
	}
	if s.nextCommentID < 1 {
		s.nextCommentID = 1
	}
	return s
}

// write serializes the snapshot to path, replacing any previous file.
// The write goes through a temp file and rename so a crash mid-write
// never leaves a truncated snapshot behind.
func (sn *snapshot) write(path string) error {
	data, err := json.MarshalIndent(sn, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}

// readSnapshot loads a snapshot file from path.
func readSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var sn snapshot
	if err := json.Unmarshal(data, &sn); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	return &sn, nil
}

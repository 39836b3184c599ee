package qualtrics

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"

	"patternstudy/domain/core"
)

// ExclusionSet is the collection of participant IDs removed from analysis
// (failed attention checks, withdrawn consent, duplicate submissions).
type ExclusionSet map[core.ParticipantID]struct{}

// Contains reports whether a participant is excluded.
func (s ExclusionSet) Contains(id core.ParticipantID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of excluded participants.
func (s ExclusionSet) Len() int {
	return len(s)
}

// LoadExclusions reads an exclusion list from a one-column CSV. A header row
// is recognized by the conventional column names and skipped; files without
// a header work too. An empty path yields an empty set: exclusion lists are
// optional.
func LoadExclusions(path string) (ExclusionSet, error) {
	set := make(ExclusionSet)
	if path == "" {
		return set, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open exclusion list: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse exclusion list: %w", err)
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		value := strings.TrimSpace(row[0])
		if value == "" {
			continue
		}
		if i == 0 && isExclusionHeader(value) {
			continue
		}
		id, err := core.ParseParticipantID(value)
		if err != nil {
			continue
		}
		set[id] = struct{}{}
	}

	log.Printf("[Exclusions] Loaded %d excluded participant(s) from %s", set.Len(), path)
	return set, nil
}

func isExclusionHeader(value string) bool {
	switch strings.ToLower(value) {
	case "participant_id", "participantid", "prolific_pid", "pid":
		return true
	}
	return false
}

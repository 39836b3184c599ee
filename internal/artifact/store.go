package artifact

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"patternstudy/domain/core"
	"patternstudy/domain/survey"
	"patternstudy/internal"
	"patternstudy/internal/errors"
)

// Long-format artifact columns. Save always writes this exact set in this
// order; Load resolves columns by header name so artifacts with extra
// columns or different ordering still round-trip.
const (
	colResponseID      = "response_id"
	colParticipantID   = "participant_id"
	colTendency        = "tendency"
	colRelease         = "release"
	colCondition       = "condition"
	colInterface       = "interface"
	colTendencyNumeric = "tendency_numeric"
	colReleaseBinary   = "release_binary"
)

var canonicalHeader = []string{
	colResponseID, colParticipantID, colTendency, colRelease,
	colCondition, colInterface, colTendencyNumeric, colReleaseBinary,
}

// Store persists the long-format observation artifact as CSV. The artifact
// is the pipeline's only hand-off surface: every summarizer reads it fresh
// rather than sharing in-memory state with the reshaper.
type Store struct {
	path   string
	logger *internal.Logger
}

// NewStore creates a store writing to the given CSV path.
func NewStore(path string) *Store {
	return &Store{path: path, logger: internal.DefaultLogger}
}

// Path returns the artifact location.
func (s *Store) Path() string {
	return s.path
}

// Save writes observations in slice order, replacing any existing artifact.
func (s *Store) Save(observations []survey.Observation) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create artifact directory")
	}

	file, err := os.Create(s.path)
	if err != nil {
		return errors.Wrap(err, "failed to create artifact file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(canonicalHeader); err != nil {
		return errors.Wrap(err, "failed to write artifact header")
	}

	for _, obs := range observations {
		record := []string{
			obs.ResponseID.String(),
			obs.ParticipantID.String(),
			obs.Tendency,
			obs.Release,
			obs.Condition,
			obs.Interface.String(),
			strconv.FormatFloat(obs.TendencyNumeric, 'g', -1, 64),
			formatBinary(obs.ReleaseBinary),
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "failed to write artifact row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "failed to flush artifact")
	}

	s.logger.Info("Artifact saved: %d observation(s) -> %s", len(observations), s.path)
	return nil
}

// Load reads the artifact back into observations, preserving file row order.
func (s *Store) Load() ([]survey.Observation, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrArtifactNotFound, s.path)
		}
		return nil, errors.Wrap(err, "failed to open artifact")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse artifact")
	}
	if len(rows) == 0 {
		return nil, errors.InvalidInput("artifact has no header row")
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	observations := make([]survey.Observation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		obs, err := parseRow(row, index)
		if err != nil {
			return nil, errors.Wrapf(err, "artifact row %d", i+2)
		}
		observations = append(observations, obs)
	}

	s.logger.Debug("Artifact loaded: %d observation(s) <- %s", len(observations), s.path)
	return observations, nil
}

type columnIndex map[string]int

func headerIndex(header []string) (columnIndex, error) {
	index := make(columnIndex, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range canonicalHeader {
		if _, ok := index[required]; !ok {
			return nil, core.NewSchemaMismatchError(required)
		}
	}
	return index, nil
}

func (ci columnIndex) get(row []string, name string) string {
	i := ci[name]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseRow(row []string, index columnIndex) (survey.Observation, error) {
	responseID, err := core.ParseResponseID(index.get(row, colResponseID))
	if err != nil {
		return survey.Observation{}, err
	}

	ifaceRaw := index.get(row, colInterface)
	ifaceNum, err := strconv.Atoi(ifaceRaw)
	if err != nil {
		return survey.Observation{}, fmt.Errorf("invalid interface %q: %w", ifaceRaw, err)
	}

	numericRaw := index.get(row, colTendencyNumeric)
	numeric, err := strconv.ParseFloat(numericRaw, 64)
	if err != nil {
		return survey.Observation{}, fmt.Errorf("invalid tendency_numeric %q: %w", numericRaw, err)
	}

	release, err := parseBinary(index.get(row, colReleaseBinary))
	if err != nil {
		return survey.Observation{}, err
	}

	return survey.Observation{
		ResponseID:      responseID,
		ParticipantID:   core.ParticipantID(index.get(row, colParticipantID)),
		Interface:       survey.Interface(ifaceNum),
		Condition:       index.get(row, colCondition),
		Tendency:        index.get(row, colTendency),
		Release:         index.get(row, colRelease),
		TendencyNumeric: numeric,
		ReleaseBinary:   release,
	}, nil
}

func formatBinary(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// parseBinary accepts both the 0/1 encoding this store writes and the
// True/False encoding older artifacts carry.
func parseBinary(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid release_binary %q", raw)
}

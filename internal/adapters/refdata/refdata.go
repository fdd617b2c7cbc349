// Package refdata loads the static player and team reference tables.
//
// The tables are plain CSV files matching the upstream provider layout.
// Loading is best-effort: the aggregation core tolerates players appearing
// in the stream before (or without) their reference row.
package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pitchpulse/pitchpulse/internal/domain/model"
)

// Column counts of the reference files.
const (
	playerColumns = 9
	teamColumns   = 2
)

// LoadPlayers reads the players table. Column order:
// name, birthArea, birthDate, foot, role, height, passportArea, weight, id.
func LoadPlayers(path string) ([]model.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open players csv: %w", err)
	}
	defer f.Close()
	return parsePlayers(f)
}

func parsePlayers(r io.Reader) ([]model.Profile, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = playerColumns

	// Header row.
	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read players header: %w", err)
	}

	var profiles []model.Profile
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read players row %d: %w", line, err)
		}

		id, err := strconv.ParseInt(row[8], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("players row %d: bad id %q: %w", line, row[8], err)
		}
		height, _ := strconv.Atoi(row[5])
		weight, _ := strconv.Atoi(row[7])

		profiles = append(profiles, model.Profile{
			ID:           id,
			Name:         row[0],
			BirthArea:    row[1],
			BirthDate:    row[2],
			Foot:         row[3],
			Role:         row[4],
			Height:       height,
			PassportArea: row[6],
			Weight:       weight,
		})
	}
	return profiles, nil
}

// LoadTeams reads the teams table. Column order: name, id.
func LoadTeams(path string) ([]model.Team, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open teams csv: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = teamColumns

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read teams header: %w", err)
	}

	var teams []model.Team
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read teams row %d: %w", line, err)
		}
		id, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("teams row %d: bad id %q: %w", line, row[1], err)
		}
		teams = append(teams, model.Team{ID: id, Name: row[0]})
	}
	return teams, nil
}

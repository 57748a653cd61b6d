package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFileGateway_LoadMissingFile tests that first run yields empty state
func TestFileGateway_LoadMissingFile(t *testing.T) {
	g := NewFileGateway(filepath.Join(t.TempDir(), "data.json"))

	doc, err := g.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
	assert.Empty(t, doc.Rides)
}

// TestFileGateway_RoundTrip tests save then load returns the same document
func TestFileGateway_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	g := NewFileGateway(path)
	ctx := context.Background()

	confirmed := true
	doc := &Document{
		Users: []UserRecord{
			{Alias: "jperez", Name: "Juan Perez", CarPlate: "ABC123"},
			{Alias: "lgomez", Name: "Lucia Gomez"},
		},
		Rides: []RideRecord{
			{
				ID:            7,
				DateAndTime:   "2025-06-01T08:00",
				FinalAddress:  "Campus Central",
				AllowedSpaces: 2,
				Driver:        "jperez",
				Status:        "inprogress",
				Participants: []ParticipationRecord{
					{
						Confirmation:   &confirmed,
						Participant:    ParticipantAlias{Alias: "lgomez"},
						Destination:    "Estación Norte",
						OccupiedSpaces: 1,
						Status:         "inprogress",
					},
				},
			},
		},
	}

	require.NoError(t, g.Save(ctx, doc))

	loaded, err := g.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

// TestFileGateway_SaveOverwrites tests whole-document replacement
func TestFileGateway_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	g := NewFileGateway(path)
	ctx := context.Background()

	require.NoError(t, g.Save(ctx, &Document{
		Users: []UserRecord{{Alias: "jperez", Name: "Juan Perez"}},
	}))
	require.NoError(t, g.Save(ctx, &Document{
		Users: []UserRecord{{Alias: "lgomez", Name: "Lucia Gomez"}},
	}))

	loaded, err := g.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Users, 1)
	assert.Equal(t, "lgomez", loaded.Users[0].Alias)
}

// TestFileGateway_LeavesNoTempFiles tests that the rename cleans up
func TestFileGateway_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	g := NewFileGateway(filepath.Join(dir, "data.json"))

	require.NoError(t, g.Save(context.Background(), &Document{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "data.json", entries[0].Name())
}

// TestFileGateway_RejectsCorruptFile tests that garbage on disk surfaces
// as an error instead of silently resetting state
func TestFileGateway_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileGateway(path).Load(context.Background())
	assert.Error(t, err)
}

package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientsync "github.com/iudanet/habitsync/internal/client/sync"
	"github.com/iudanet/habitsync/internal/models"
)

func TestTrackerAdd(t *testing.T) {
	tests := []struct {
		want clientsync.TrackerInput
		name string
		args []string
	}{
		{
			name: "defaults",
			args: []string{"tracker", "add", "Meditation"},
			want: clientsync.TrackerInput{Name: "Meditation", Kind: models.KindSimple, Frequency: "daily"},
		},
		{
			name: "all flags",
			args: []string{"tracker", "add", "Water", "--id", "water", "--category", "health", "--type", "quantifiable", "--frequency", "weekly"},
			want: clientsync.TrackerInput{ID: "water", Name: "Water", Category: "health", Kind: models.KindQuantifiable, Frequency: "weekly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got clientsync.TrackerInput
			engine := &EngineMock{
				UpsertTrackerFunc: func(in clientsync.TrackerInput) (*models.Tracker, error) {
					got = in
					id := in.ID
					if id == "" {
						id = "generated-id"
					}
					return &models.Tracker{ID: id, Name: in.Name, Kind: in.Kind}, nil
				},
			}
			mockIO, out := newTestIO()

			err := execute(t, engine, mockIO, tt.args...)
			require.NoError(t, err)

			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "✓ Tracker \""+tt.want.Name+"\" created")
		})
	}
}

func TestTrackerAdd_Error(t *testing.T) {
	engine := &EngineMock{
		UpsertTrackerFunc: func(in clientsync.TrackerInput) (*models.Tracker, error) {
			return nil, errors.New("unknown tracker kind \"bogus\"")
		},
	}
	mockIO, _ := newTestIO()

	err := execute(t, engine, mockIO, "tracker", "add", "Water", "--type", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add tracker")
}

func TestTrackerAdd_RequiresName(t *testing.T) {
	mockIO, _ := newTestIO()

	err := execute(t, &EngineMock{}, mockIO, "tracker", "add")
	assert.Error(t, err)
}

func TestTrackerEdit_OnlyChangedFields(t *testing.T) {
	existing := testTracker("t1", "Water", "health", models.KindQuantifiable)
	existing.Meta = map[string]string{"unit": "ml"}

	var got clientsync.TrackerInput
	engine := &EngineMock{
		TrackerFunc: func(id string) (*models.Tracker, bool) {
			return existing, id == "t1"
		},
		UpsertTrackerFunc: func(in clientsync.TrackerInput) (*models.Tracker, error) {
			got = in
			return &models.Tracker{ID: in.ID, Name: in.Name}, nil
		},
	}
	mockIO, out := newTestIO()

	err := execute(t, engine, mockIO, "tracker", "edit", "t1", "--name", "Drink water")
	require.NoError(t, err)

	assert.Equal(t, clientsync.TrackerInput{
		ID:        "t1",
		Name:      "Drink water",
		Category:  "health",
		Kind:      models.KindQuantifiable,
		Frequency: "daily",
		Meta:      map[string]string{"unit": "ml"},
	}, got)
	assert.Contains(t, out.String(), "✓ Tracker t1 updated")
}

func TestTrackerEdit_NotFound(t *testing.T) {
	deleted := testTracker("t2", "Old", "", models.KindSimple)
	deleted.State = models.StatePendingDelete

	tests := []struct {
		tracker *models.Tracker
		name    string
	}{
		{name: "missing", tracker: nil},
		{name: "pending delete", tracker: deleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &EngineMock{
				TrackerFunc: func(id string) (*models.Tracker, bool) {
					return tt.tracker, tt.tracker != nil
				},
			}
			mockIO, _ := newTestIO()

			err := execute(t, engine, mockIO, "tracker", "edit", "t2", "--name", "New")
			assert.ErrorIs(t, err, clientsync.ErrTrackerNotFound)
			assert.Empty(t, engine.UpsertTrackerCalls())
		})
	}
}

func TestTrackerDelete(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		answers     []string
		wantOutput  string
		wantDeleted bool
		wantErr     bool
	}{
		{
			name:        "confirmed",
			args:        []string{"tracker", "delete", "t1"},
			answers:     []string{"y"},
			wantDeleted: true,
			wantOutput:  "✓ Tracker t1 deleted",
		},
		{
			name:        "confirmed with yes",
			args:        []string{"tracker", "delete", "t1"},
			answers:     []string{"YES"},
			wantDeleted: true,
			wantOutput:  "✓ Tracker t1 deleted",
		},
		{
			name:       "declined",
			args:       []string{"tracker", "delete", "t1"},
			answers:    []string{"n"},
			wantOutput: "Cancelled",
		},
		{
			name:        "skip confirmation",
			args:        []string{"tracker", "delete", "t1", "-y"},
			wantDeleted: true,
			wantOutput:  "✓ Tracker t1 deleted",
		},
		{
			name:    "no input",
			args:    []string{"tracker", "delete", "t1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &EngineMock{
				TrackerFunc: func(id string) (*models.Tracker, bool) {
					return testTracker("t1", "Water", "health", models.KindQuantifiable), true
				},
				DeleteTrackerFunc: func(id string) error {
					return nil
				},
			}
			mockIO, out := newTestIO(tt.answers...)

			err := execute(t, engine, mockIO, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, engine.DeleteTrackerCalls())
				return
			}
			require.NoError(t, err)

			if tt.wantDeleted {
				require.Len(t, engine.DeleteTrackerCalls(), 1)
				assert.Equal(t, "t1", engine.DeleteTrackerCalls()[0].ID)
			} else {
				assert.Empty(t, engine.DeleteTrackerCalls())
			}
			assert.Contains(t, out.String(), tt.wantOutput)
		})
	}
}

func TestTrackerList(t *testing.T) {
	unsynced := testTracker("t3", "Push-ups", "sport", models.KindQuantifiable)
	unsynced.Version = 0

	engine := &EngineMock{
		TrackersFunc: func() []*models.Tracker {
			return []*models.Tracker{
				unsynced,
				testTracker("t2", "Water", "health", models.KindQuantifiable),
				testTracker("t1", "Sleep", "health", models.KindEvaluation),
			}
		},
		EntryFunc: func(key models.EntryKey) (*models.Entry, bool) {
			if key == (models.EntryKey{Date: "2024-03-15", TrackerID: "t2"}) {
				return &models.Entry{Key: key, Value: models.Float(1.5), Completed: models.Bool(true)}, true
			}
			return nil, false
		},
	}
	mockIO, out := newTestIO()

	err := execute(t, engine, mockIO, "tracker", "list")
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Trackers (2024-03-15):")

	sleep := strings.Index(output, "Sleep")
	water := strings.Index(output, "Water")
	pushups := strings.Index(output, "Push-ups")
	assert.True(t, sleep < water && water < pushups, "trackers are sorted by category and name:\n%s", output)

	assert.Contains(t, output, "[x] 1.5 (v2)")
	assert.Contains(t, output, "(not synced)")
	assert.Contains(t, output, "id: t3")
}

func TestTrackerList_Date(t *testing.T) {
	var keys []models.EntryKey
	engine := &EngineMock{
		TrackersFunc: func() []*models.Tracker {
			return []*models.Tracker{testTracker("t1", "Water", "health", models.KindQuantifiable)}
		},
		EntryFunc: func(key models.EntryKey) (*models.Entry, bool) {
			keys = append(keys, key)
			return nil, false
		},
	}
	mockIO, out := newTestIO()

	err := execute(t, engine, mockIO, "tracker", "list", "--date", "2024-03-01")
	require.NoError(t, err)

	assert.Equal(t, []models.EntryKey{{Date: "2024-03-01", TrackerID: "t1"}}, keys)
	assert.Contains(t, out.String(), "Trackers (2024-03-01):")
}

func TestTrackerList_Empty(t *testing.T) {
	engine := &EngineMock{
		TrackersFunc: func() []*models.Tracker { return nil },
	}
	mockIO, out := newTestIO()

	err := execute(t, engine, mockIO, "tracker", "list")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No trackers yet")
}

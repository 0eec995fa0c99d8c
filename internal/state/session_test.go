package state_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/mythos/internal/kvstore"
	"github.com/HendryAvila/mythos/internal/state"
)

func TestSession_FirstVisitOnlyOnce(t *testing.T) {
	store, _ := newStore(t)

	first := state.NewSession(store)
	assert.True(t, first.FirstVisit())
	assert.True(t, first.Snapshot().FirstVisit)

	second := state.NewSession(store)
	assert.False(t, second.FirstVisit())
}

func TestSession_Snapshot(t *testing.T) {
	store, _ := newStore(t)
	s := state.NewSession(store)

	_, err := s.Landforms.Manifest(state.LandformAltar, 5, 10, 10)
	require.NoError(t, err)
	_, err = s.Ritual.Activate(state.ElementEarth)
	require.NoError(t, err)
	require.NoError(t, s.Navigator.Navigate(state.ModeRitual))

	snap := s.Snapshot()
	assert.Equal(t, state.DefaultPsychicState, snap.PsychicState)
	assert.Equal(t, state.AtmosphereBalanced, snap.Atmosphere)
	assert.Len(t, snap.Landforms, 1)
	assert.Equal(t, state.ModeRitual, snap.NavigationMode)
	assert.True(t, snap.Ritual.Earth)
	assert.Equal(t, state.PhasePreparation, snap.RitualPhase)
	assert.Equal(t, state.SoundscapeFocus, snap.SoundscapeMode)
	assert.Equal(t, state.DefaultVolume, snap.SoundscapeVolume)
}

func TestSession_ResetAfterClear(t *testing.T) {
	store, backend := newStore(t)
	s := state.NewSession(store)

	s.Psyche.Adjust(state.PsychicState{Clarity: 2})
	_, err := s.Landforms.Manifest(state.LandformCave, 2, 0, 0)
	require.NoError(t, err)
	require.NoError(t, s.Soundscape.SetMode(state.SoundscapeCalm))

	require.Zero(t, store.Clear())
	s.Reset()

	assert.Zero(t, backend.Len())
	assert.Equal(t, state.DefaultPsychicState, s.Psyche.State())
	assert.Zero(t, s.Landforms.Count())
	assert.Equal(t, state.ModeOverview, s.Navigator.Mode())
	assert.Equal(t, state.SoundscapeFocus, s.Soundscape.Mode())
	assert.True(t, s.Visits.IsFirstVisit())
}

func TestSession_CloseRecordsHistory(t *testing.T) {
	store, _ := newStore(t)
	start := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	state.FixClock(t, start)
	s := state.NewSession(store)

	require.NoError(t, s.Navigator.Navigate(state.ModeDream))
	require.NoError(t, s.Navigator.Navigate(state.ModeJournal))
	require.NoError(t, s.Navigator.Navigate(state.ModeDream))
	_, err := s.Landforms.Manifest(state.LandformFlame, 6, 0, 0)
	require.NoError(t, err)
	for _, e := range []state.Element{state.ElementEarth, state.ElementFire, state.ElementWater, state.ElementAir} {
		_, err := s.Ritual.Activate(e)
		require.NoError(t, err)
	}
	_, err = s.Ritual.Complete(state.ToolCrystal)
	require.NoError(t, err)
	s.Psyche.Adjust(state.PsychicState{Growth: 1})

	state.FixClock(t, start.Add(30*time.Minute))
	rec := s.Close(3)

	assert.Regexp(t, `^session-`, rec.ID)
	assert.Equal(t, start, rec.Date)
	assert.InDelta(t, 30, rec.Duration, 1e-9)
	assert.Equal(t, []state.Mode{state.ModeOverview, state.ModeDream, state.ModeJournal}, rec.NavigationModes)
	assert.Equal(t, 1, rec.LandformsCreated)
	assert.Equal(t, 1, rec.RitualsCompleted)
	assert.Equal(t, 3, rec.JournalEntries)
	assert.Equal(t, state.DefaultPsychicState, rec.PsychicStateBefore)
	assert.Equal(t, 6.0, rec.PsychicStateAfter.Growth)

	stored := kvstore.Get(store, kvstore.KeySessionHistory, []state.SessionRecord{})
	require.Len(t, stored, 1)
	assert.Equal(t, rec.ID, stored[0].ID)
}

func TestSession_ResetKeepsActivityCounters(t *testing.T) {
	store, _ := newStore(t)
	prior := state.NewSession(store)
	for range 2 {
		_, err := prior.Landforms.Manifest(state.LandformMountain, 4, 0, 0)
		require.NoError(t, err)
	}

	s := state.NewSession(store)
	require.NoError(t, s.Navigator.Navigate(state.ModeDream))
	for _, e := range []state.Element{state.ElementEarth, state.ElementFire, state.ElementWater, state.ElementAir} {
		_, err := s.Ritual.Activate(e)
		require.NoError(t, err)
	}
	_, err := s.Ritual.Complete(state.ToolGlyph)
	require.NoError(t, err)

	require.Zero(t, store.Clear())
	s.Reset()
	_, err = s.Landforms.Manifest(state.LandformRiver, 3, 0, 0)
	require.NoError(t, err)

	rec := s.Close(0)
	assert.Equal(t, 1, rec.LandformsCreated)
	assert.Equal(t, 1, rec.RitualsCompleted)
	assert.Equal(t, []state.Mode{state.ModeOverview, state.ModeDream}, rec.NavigationModes)
}

func TestSession_ResetConcurrentWithClose(t *testing.T) {
	store, _ := newStore(t)
	s := state.NewSession(store)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Reset()
		}()
		go func() {
			defer wg.Done()
			rec := s.Close(0)
			assert.GreaterOrEqual(t, rec.LandformsCreated, 0)
		}()
	}
	wg.Wait()
}

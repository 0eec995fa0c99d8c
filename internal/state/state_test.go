package state_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/mythos/internal/kvstore"
	"github.com/HendryAvila/mythos/internal/state"
)

func newStore(t *testing.T) (*kvstore.Adapter, *kvstore.MemoryBackend) {
	t.Helper()
	backend := kvstore.NewMemoryBackend()
	return kvstore.NewAdapter(backend), backend
}

// ── Slot ────────────────────────────────────────────────────────────

func TestSlot_RehydratesAndPersists(t *testing.T) {
	store, _ := newStore(t)

	s := state.NewSlot(store, "counter", 0, nil)
	assert.Equal(t, 0, s.Value())

	assert.Equal(t, 5, s.Set(5))
	assert.Equal(t, 7, s.Update(func(prev int) int { return prev + 2 }))

	again := state.NewSlot(store, "counter", 0, nil)
	assert.Equal(t, 7, again.Value())
}

func TestSlot_NormalizesStoredAndWrittenValues(t *testing.T) {
	store, backend := newStore(t)
	backend.Raw(kvstore.Resolve("level"), "42")

	clamp := func(v int) int { return min(v, 10) }
	s := state.NewSlot(store, "level", 1, clamp)
	assert.Equal(t, 10, s.Value(), "rehydrated value is normalized")
	assert.Equal(t, 10, s.Set(99))
}

func TestSlot_ConcurrentUpdates(t *testing.T) {
	store, _ := newStore(t)
	s := state.NewSlot(store, "counter", 0, nil)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(prev int) int { return prev + 1 })
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Value())
}

// ── Psyche ──────────────────────────────────────────────────────────

func TestPsyche_DefaultState(t *testing.T) {
	store, _ := newStore(t)
	p := state.NewPsyche(store)
	assert.Equal(t, state.DefaultPsychicState, p.State())
	assert.Equal(t, state.AtmosphereBalanced, p.Atmosphere())
}

func TestPsyche_SetClamps(t *testing.T) {
	store, _ := newStore(t)
	p := state.NewPsyche(store)

	got := p.Set(state.PsychicState{Clarity: 15, Turbulence: -2, Growth: 5, Integration: math.NaN()})
	want := state.PsychicState{Clarity: 10, Turbulence: 1, Growth: 5, Integration: 1}
	assert.Equal(t, want, got)
	assert.Equal(t, want, p.State())
}

func TestPsyche_RoundTrip(t *testing.T) {
	store, _ := newStore(t)
	p := state.NewPsyche(store)
	p.Adjust(state.PsychicState{Clarity: 1.5, Turbulence: -1})

	reloaded := state.NewPsyche(store)
	if diff := cmp.Diff(p.State(), reloaded.State()); diff != "" {
		t.Errorf("rehydrated state mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 8.5, reloaded.State().Clarity, 1e-9)
}

func TestPsyche_CorruptedStoreIsClamped(t *testing.T) {
	store, backend := newStore(t)
	backend.Raw(kvstore.Resolve(kvstore.KeyPsychicState), `{"clarity":40,"turbulence":0,"growth":5,"integration":4}`)

	p := state.NewPsyche(store)
	assert.Equal(t, state.PsychicState{Clarity: 10, Turbulence: 1, Growth: 5, Integration: 4}, p.State())
}

func TestPsyche_ApplyTool(t *testing.T) {
	tests := []struct {
		tool state.ToolType
		want state.PsychicState
	}{
		{state.ToolCompass, state.PsychicState{Clarity: 8, Turbulence: 3, Growth: 5, Integration: 4}},
		{state.ToolMirror, state.PsychicState{Clarity: 7, Turbulence: 3, Growth: 5, Integration: 5}},
		{state.ToolTorch, state.DefaultPsychicState},
	}
	for _, tt := range tests {
		t.Run(string(tt.tool), func(t *testing.T) {
			store, _ := newStore(t)
			p := state.NewPsyche(store)
			assert.Equal(t, tt.want, p.ApplyTool(tt.tool))
		})
	}
}

func TestPsyche_ApplyToolAtMax(t *testing.T) {
	store, _ := newStore(t)
	p := state.NewPsyche(store)
	p.Set(state.PsychicState{Clarity: 10, Turbulence: 3, Growth: 5, Integration: 4})
	assert.Equal(t, 10.0, p.ApplyTool(state.ToolCompass).Clarity)
}

func TestPsyche_Atmosphere(t *testing.T) {
	tests := []struct {
		name string
		s    state.PsychicState
		want state.Atmosphere
	}{
		{"turbulence wins", state.PsychicState{Clarity: 9, Turbulence: 8, Growth: 9, Integration: 4}, state.AtmosphereTurbulent},
		{"clear", state.PsychicState{Clarity: 9, Turbulence: 3, Growth: 9, Integration: 4}, state.AtmosphereClear},
		{"growing", state.PsychicState{Clarity: 5, Turbulence: 3, Growth: 9, Integration: 4}, state.AtmosphereGrowing},
		{"balanced", state.DefaultPsychicState, state.AtmosphereBalanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newStore(t)
			p := state.NewPsyche(store)
			p.Set(tt.s)
			assert.Equal(t, tt.want, p.Atmosphere())
		})
	}
}

func TestPsyche_IntegrationReadiness(t *testing.T) {
	store, _ := newStore(t)
	p := state.NewPsyche(store)
	assert.InDelta(t, (7.0+5.0+4.0)/3, p.IntegrationReadiness(), 1e-9)
}

// ── Landforms ───────────────────────────────────────────────────────

func TestResonanceFor(t *testing.T) {
	tests := []struct {
		intensity float64
		want      state.Resonance
	}{
		{10, state.ResonanceBreakthrough},
		{8.01, state.ResonanceBreakthrough},
		{8, state.ResonanceGrowth},
		{6.5, state.ResonanceGrowth},
		{6, state.ResonanceCalm},
		{3, state.ResonanceCalm},
		{2.99, state.ResonanceShadow},
		{0, state.ResonanceShadow},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.intensity), func(t *testing.T) {
			assert.Equal(t, tt.want, state.ResonanceFor(tt.intensity))
		})
	}
}

func TestLandforms_Manifest(t *testing.T) {
	store, _ := newStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	state.FixClock(t, now)
	l := state.NewLandforms(store)

	lf, err := l.Manifest(state.LandformMountain, 7, 200, 300)
	require.NoError(t, err)

	assert.Regexp(t, `^mountain-[0-9a-f-]{36}$`, lf.ID)
	assert.Equal(t, "Mountain of Resistance", lf.Name)
	assert.Equal(t, "A mountain of resistance has emerged in your inner landscape", lf.Description)
	assert.Equal(t, state.Position{X: 200, Y: 300, Z: 70}, lf.Position)
	assert.Equal(t, state.ResonanceGrowth, lf.Resonance)
	assert.Empty(t, lf.Interactions)
	assert.NotNil(t, lf.Interactions)
	assert.Equal(t, now, lf.Timestamp)
	assert.Equal(t, 1, l.Count())

	reloaded := state.NewLandforms(store)
	if diff := cmp.Diff(l.All(), reloaded.All()); diff != "" {
		t.Errorf("rehydrated landforms mismatch (-want +got):\n%s", diff)
	}
}

func TestLandforms_ManifestClampsIntensity(t *testing.T) {
	store, _ := newStore(t)
	l := state.NewLandforms(store)

	hi, err := l.Manifest(state.LandformFlame, 14, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, hi.Intensity)
	assert.Equal(t, 100.0, hi.Position.Z)

	lo, err := l.Manifest(state.LandformCave, -3, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lo.Intensity)
	assert.Equal(t, state.ResonanceShadow, lo.Resonance)
}

func TestLandforms_ManifestRejectsUnknownType(t *testing.T) {
	store, _ := newStore(t)
	l := state.NewLandforms(store)

	_, err := l.Manifest("volcano", 5, 0, 0)
	require.ErrorIs(t, err, state.ErrInvalidLandformType)
	assert.Zero(t, l.Count())
}

func TestLandforms_AppendOrderAndResolve(t *testing.T) {
	store, _ := newStore(t)
	l := state.NewLandforms(store)

	a, err := l.Manifest(state.LandformRiver, 4, 0, 0)
	require.NoError(t, err)
	b, err := l.Manifest(state.LandformAltar, 5, 0, 0)
	require.NoError(t, err)

	all := l.All()
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)

	got := l.Resolve([]string{b.ID, "gone", a.ID})
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)

	_, ok := l.Get("gone")
	assert.False(t, ok)
}

func TestRandomPosition_InsideCanvas(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 100 {
		x, y := state.RandomPosition(r)
		assert.GreaterOrEqual(t, x, 100.0)
		assert.Less(t, x, 700.0)
		assert.GreaterOrEqual(t, y, 100.0)
		assert.Less(t, y, 500.0)
	}
}

// ── Navigation ──────────────────────────────────────────────────────

func TestNavigator(t *testing.T) {
	store, _ := newStore(t)
	n := state.NewNavigator(store)
	assert.Equal(t, state.ModeOverview, n.Mode())

	require.NoError(t, n.Navigate(state.ModeJournal))
	assert.Equal(t, state.ModeJournal, n.Mode())

	err := n.Navigate("cosmos")
	require.ErrorIs(t, err, state.ErrInvalidMode)
	assert.Equal(t, state.ModeJournal, n.Mode())

	assert.Equal(t, state.ModeJournal, state.NewNavigator(store).Mode())
}

func TestNavigator_InvalidStoredModeFallsBack(t *testing.T) {
	store, backend := newStore(t)
	backend.Raw(kvstore.Resolve(kvstore.KeyNavigationMode), `"cosmos"`)
	assert.Equal(t, state.ModeOverview, state.NewNavigator(store).Mode())
}

// ── Ritual ──────────────────────────────────────────────────────────

func TestRitual_PhaseProgression(t *testing.T) {
	store, _ := newStore(t)
	r := state.NewRitual(store)
	assert.Equal(t, state.PhasePreparation, r.Phase())

	steps := []struct {
		el   state.Element
		want state.Phase
	}{
		{state.ElementFire, state.PhasePreparation},
		{state.ElementFire, state.PhasePreparation},
		{state.ElementEarth, state.PhasePreparation},
		{state.ElementAir, state.PhaseInvocation},
		{state.ElementWater, state.PhaseManifestation},
	}
	for _, s := range steps {
		got, err := r.Activate(s.el)
		require.NoError(t, err)
		assert.Equal(t, s.want, got, "after activating %s", s.el)
	}
	assert.Equal(t,
		[]state.Element{state.ElementEarth, state.ElementFire, state.ElementWater, state.ElementAir},
		r.Active())
}

func TestRitual_ActivateRejectsUnknownElement(t *testing.T) {
	store, _ := newStore(t)
	r := state.NewRitual(store)
	_, err := r.Activate("aether")
	require.ErrorIs(t, err, state.ErrInvalidElement)
	assert.Empty(t, r.Active())
}

func TestRitual_CompleteRequiresManifestation(t *testing.T) {
	store, _ := newStore(t)
	r := state.NewRitual(store)
	for _, e := range []state.Element{state.ElementEarth, state.ElementFire, state.ElementWater} {
		_, err := r.Activate(e)
		require.NoError(t, err)
	}

	_, err := r.Complete(state.ToolCompass)
	require.ErrorIs(t, err, state.ErrRitualIncomplete)
	assert.Len(t, r.Active(), 3)
	assert.Nil(t, r.Progress().LastCompleted)
}

func TestRitual_CompleteResetsAndStamps(t *testing.T) {
	store, _ := newStore(t)
	now := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	state.FixClock(t, now)
	r := state.NewRitual(store)
	for _, e := range []state.Element{state.ElementEarth, state.ElementFire, state.ElementWater, state.ElementAir} {
		_, err := r.Activate(e)
		require.NoError(t, err)
	}

	id, err := r.Complete(state.ToolMirror)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("mirror-ritual-%d", now.UnixMilli()), id)
	assert.Empty(t, r.Active())
	assert.Equal(t, state.PhasePreparation, r.Phase())

	reloaded := state.NewRitual(store).Progress()
	require.NotNil(t, reloaded.LastCompleted)
	assert.True(t, now.Equal(*reloaded.LastCompleted))
	assert.False(t, reloaded.Earth || reloaded.Fire || reloaded.Water || reloaded.Air)
}

func TestRitual_CompleteWithoutTool(t *testing.T) {
	store, _ := newStore(t)
	now := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	state.FixClock(t, now)
	r := state.NewRitual(store)
	for _, e := range []state.Element{state.ElementEarth, state.ElementFire, state.ElementWater, state.ElementAir} {
		_, err := r.Activate(e)
		require.NoError(t, err)
	}

	id, err := r.Complete("")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("general-ritual-%d", now.UnixMilli()), id)
}

// ── Flows ───────────────────────────────────────────────────────────

func TestCarveGlyph_ChoosesArchetypeByIntensity(t *testing.T) {
	tests := []struct {
		intensity float64
		want      state.LandformType
	}{
		{9, state.LandformCrystal},
		{7.5, state.LandformCrystal},
		{7, state.LandformFlame},
		{5.5, state.LandformFlame},
		{5, state.LandformRiver},
		{0, state.LandformRiver},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.intensity), func(t *testing.T) {
			store, _ := newStore(t)
			p := state.NewPsyche(store)
			l := state.NewLandforms(store)

			c, err := state.CarveGlyph(p, l, state.ToolTorch, tt.intensity, 10, 20)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Landform.Type)
			assert.NotEmpty(t, c.Message)
			assert.Equal(t, 1, l.Count())
		})
	}
}

func TestCarveGlyph_AppliesToolEffect(t *testing.T) {
	store, _ := newStore(t)
	p := state.NewPsyche(store)
	l := state.NewLandforms(store)

	c, err := state.CarveGlyph(p, l, state.ToolMirror, 3, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, c.State.Integration)
	assert.Equal(t, 5.0, p.State().Integration)
}

func TestCarveGlyph_RejectsUnknownTool(t *testing.T) {
	store, _ := newStore(t)
	p := state.NewPsyche(store)
	l := state.NewLandforms(store)

	_, err := state.CarveGlyph(p, l, "hammer", 3, 0, 0)
	require.ErrorIs(t, err, state.ErrInvalidTool)
	assert.Zero(t, l.Count())
	assert.Equal(t, state.DefaultPsychicState, p.State())
}

func TestTuneDream(t *testing.T) {
	store, _ := newStore(t)
	n := state.NewNavigator(store)
	l := state.NewLandforms(store)

	lf, err := state.TuneDream(n, l, 400, 300)
	require.NoError(t, err)
	assert.Equal(t, state.ModeDream, n.Mode())
	assert.Equal(t, state.LandformForest, lf.Type)
	assert.Equal(t, state.DreamIntensity, lf.Intensity)
	assert.Equal(t, state.ResonanceGrowth, lf.Resonance)
}

// ── Settings ────────────────────────────────────────────────────────

func TestSoundscape(t *testing.T) {
	store, _ := newStore(t)
	s := state.NewSoundscape(store)
	assert.Equal(t, state.SoundscapeFocus, s.Mode())
	assert.Equal(t, state.DefaultVolume, s.Volume())

	require.NoError(t, s.SetMode(state.SoundscapeFlow))
	require.ErrorIs(t, s.SetMode("jazz"), state.ErrInvalidSoundscape)
	assert.Equal(t, 1.0, s.SetVolume(3))
	assert.Equal(t, 0.25, s.SetVolume(0.25))

	reloaded := state.NewSoundscape(store)
	assert.Equal(t, state.SoundscapeFlow, reloaded.Mode())
	assert.Equal(t, 0.25, reloaded.Volume())
}

func TestVisits(t *testing.T) {
	store, _ := newStore(t)
	v := state.NewVisits(store)
	assert.True(t, v.IsFirstVisit())

	v.MarkVisited()
	assert.False(t, v.IsFirstVisit())
	assert.False(t, state.NewVisits(store).IsFirstVisit())
}

func TestHistory_KeepsNewestRecords(t *testing.T) {
	store, _ := newStore(t)
	h := state.NewHistory(store)

	for i := range state.MaxSessionHistory + 5 {
		h.Record(state.SessionRecord{ID: fmt.Sprintf("s-%d", i), Duration: float64(i)})
	}

	all := h.All()
	require.Len(t, all, state.MaxSessionHistory)
	assert.Equal(t, "s-5", all[0].ID)
	assert.Equal(t, fmt.Sprintf("s-%d", state.MaxSessionHistory+4), all[len(all)-1].ID)

	assert.Len(t, state.NewHistory(store).All(), state.MaxSessionHistory)
}

package sceneobject

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-go/engine/game_object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newObject() *Object {
	return &Object{GameObject: game_object.NewGameObject()}
}

func TestFlagsHasAndFinalPassOnly(t *testing.T) {
	f := EmissionOnly | CastShadows
	assert.True(t, f.Has(EmissionOnly))
	assert.True(t, f.Has(CastShadows))
	assert.False(t, f.Has(DynamicPosition))
	assert.True(t, f.FinalPassOnly())

	assert.False(t, Flags(CastShadows).FinalPassOnly())
}

func TestScissorsRectSentinels(t *testing.T) {
	assert.True(t, NotComputedScissors().IsNotComputed())
	assert.True(t, OutsideLightScissors().IsOutsideLight())
	assert.True(t, NoneUsableScissors().IsNoneUsable())

	usable := ScissorsRect{Left: 0, Right: 10, Bottom: 0, Top: 10, Near: 0, Far: 1}
	assert.True(t, usable.IsUsable())
	assert.True(t, usable.Valid())
}

func TestScissorsRectValidRejectsDegenerateRegion(t *testing.T) {
	degenerate := ScissorsRect{Left: 5, Right: 5, Bottom: 0, Top: 10, Near: 0, Far: 1}
	assert.False(t, degenerate.Valid())
}

func TestGeometryScissorsCursorAdvancesAndRelabelsOnMismatch(t *testing.T) {
	obj := newObject()
	obj.GeometryScissorsCache = []GeometryScissorsEntry{
		{LightID: 7, Rect: NotComputedScissors()},
		{LightID: 9, Rect: NotComputedScissors()},
	}

	obj.ResetGeometryScissorsCursor(1)
	entry, hit := obj.NextGeometryScissorsSlot(7)
	require.NotNil(t, entry)
	assert.True(t, hit)
	assert.Equal(t, uint64(7), entry.LightID)

	entry, hit = obj.NextGeometryScissorsSlot(42)
	require.NotNil(t, entry)
	assert.False(t, hit)
	assert.Equal(t, uint64(42), entry.LightID)
	assert.True(t, entry.Rect.IsNotComputed())

	_, hit = obj.NextGeometryScissorsSlot(1)
	assert.False(t, hit)
}

func TestResetGeometryScissorsCursorIsIdempotentWithinAFrame(t *testing.T) {
	obj := newObject()
	obj.GeometryScissorsCache = []GeometryScissorsEntry{{LightID: 1}}

	obj.ResetGeometryScissorsCursor(5)
	obj.NextGeometryScissorsSlot(1)
	obj.ResetGeometryScissorsCursor(5)

	assert.Equal(t, 1, obj.StaticLightOrder)
}

func TestStaticShadowVolumeForFindsAttachedPrimitive(t *testing.T) {
	obj := newObject()
	obj.StaticShadowVolumes = []StaticShadowVolume{
		{LightID: 3, Primitive: ShadowPrimitive{Kind: ShadowPrimitiveCylinder}},
	}

	prim, ok := obj.StaticShadowVolumeFor(3)
	require.True(t, ok)
	assert.Equal(t, ShadowPrimitiveCylinder, prim.Kind)

	_, ok = obj.StaticShadowVolumeFor(99)
	assert.False(t, ok)
}

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase_Defaults(t *testing.T) {
	s := &minimalScene{}

	assert.NotPanics(t, func() { s.Enter("data") })
	assert.NotPanics(t, s.Leave)
	assert.NoError(t, s.Update())

	_, err := s.Respond("anything")
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.ErrorIs(t, s.Receive("anything", nil), ErrNotImplemented)
}

func TestBase_UnboundForwardingFails(t *testing.T) {
	s := &minimalScene{}

	assert.ErrorIs(t, s.GoToScene("x", nil), ErrNotRegistered)
	assert.ErrorIs(t, s.Quit(), ErrNotRegistered)
	_, err := s.Request("x", "id")
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.ErrorIs(t, s.Send("x", "id", nil), ErrNotRegistered)
	assert.ErrorIs(t, s.SendAll("id", nil), ErrNotRegistered)
	assert.ErrorIs(t, s.AddScene("x", &minimalScene{}), ErrNotRegistered)
	assert.ErrorIs(t, s.RemoveScene("x"), ErrNotRegistered)
	assert.Equal(t, NoScene, s.Key())
}

func TestBase_DefaultErrorsNameTheScene(t *testing.T) {
	s := &minimalScene{}
	other := newMock("caller", nil)
	_, err := New(FromMap(map[Key]Scene{"caller": other, "quiet": s}, "caller"), 30)
	require.NoError(t, err)

	_, err = other.Request("quiet", "hiscore")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"quiet"`)
	assert.Contains(t, err.Error(), `"hiscore"`)
}

func TestBase_MinimalSceneRuns(t *testing.T) {
	s := &minimalScene{}
	r, err := New(FromMap(map[Key]Scene{"only": s}, "only"), 60)
	require.NoError(t, err)

	require.NoError(t, r.Frame(&fakeInput{}))
	require.NoError(t, r.Frame(&fakeInput{}))
	assert.Equal(t, 2, s.drawn)
}

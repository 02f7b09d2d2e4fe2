package sendstate_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/sendtovrc/internal/model"
	"github.com/slok/sendtovrc/internal/sendstate"
)

func TestStorePublish(t *testing.T) {
	assert := assert.New(t)

	s := sendstate.NewStore(sendstate.StoreConfig{})
	var published []model.SendState
	s.Subscribe(func(st model.SendState) { published = append(published, st) })

	old := s.Begin(model.DestinationImageViewer)
	assert.True(s.Publish(old, model.SendStateUploading(model.DestinationImageViewer, model.SendProgressStarting)))

	// A new submission starts, the old one finishes late.
	current := s.Begin(model.DestinationImageViewer)
	assert.True(s.Publish(current, model.SendStateUploading(model.DestinationImageViewer, model.SendProgressStarting)))
	assert.False(s.Publish(old, model.SendStateDone(model.DestinationImageViewer, "https://old")))
	assert.True(s.Publish(current, model.SendStateDone(model.DestinationImageViewer, "https://new")))

	got, ok := s.Get(model.DestinationImageViewer)
	assert.True(ok)
	assert.Equal(model.SendStateDone(model.DestinationImageViewer, "https://new"), got)
	assert.Len(published, 3)

	// Generations are per destination.
	printGen := s.Begin(model.DestinationVRChatPrint)
	assert.True(s.Publish(printGen, model.SendStateDone(model.DestinationVRChatPrint, "")))
}

func TestStoreSetFileToSend(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	now := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	s := sendstate.NewStore(sendstate.StoreConfig{Now: func() time.Time { return now }})

	_, err := s.SetFileToSend("")
	assert.ErrorIs(err, model.ErrNotValid)

	f1, err := s.SetFileToSend("/tmp/a.png")
	require.NoError(err)
	f2, err := s.SetFileToSend("/tmp/a.png")
	require.NoError(err)
	assert.Greater(f2.RequestedAt, f1.RequestedAt, "same clock reading should still increase")

	got, ok := s.FileToSend()
	assert.True(ok)
	assert.Equal(f2, got)

	// Refused while uploading.
	gen := s.Begin(model.DestinationVideoPlayer)
	s.Publish(gen, model.SendStateUploading(model.DestinationVideoPlayer, model.SendProgressStarting))
	_, err = s.SetFileToSend("/tmp/b.png")
	assert.ErrorIs(err, model.ErrNotValid)

	// Accepted again once finished, and states are cleared.
	s.Publish(gen, model.SendStateError(model.DestinationVideoPlayer, "boom"))
	_, err = s.SetFileToSend("/tmp/b.png")
	require.NoError(err)
	_, ok = s.Get(model.DestinationVideoPlayer)
	assert.False(ok)
}

func TestStoreSetFileToSendNeverDropsInFlightState(t *testing.T) {
	// Whatever the interleaving, an uploading state is either published after the
	// reset or it makes SetFileToSend fail, it's never wiped.
	for i := 0; i < 200; i++ {
		s := sendstate.NewStore(sendstate.StoreConfig{})
		gen := s.Begin(model.DestinationImageViewer)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Publish(gen, model.SendStateUploading(model.DestinationImageViewer, model.SendProgressStarting))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.SetFileToSend("/tmp/a.png")
		}()
		wg.Wait()

		require.True(t, s.Uploading(), "iteration %d", i)
	}
}

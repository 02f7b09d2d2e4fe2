package gate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/sendtovrc/internal/gate"
	"github.com/slok/sendtovrc/internal/model"
)

type calls struct {
	resolved []string
	rejected []error
}

func (c *calls) request(g *gate.Gate[string]) {
	g.Request(
		func(v string) { c.resolved = append(c.resolved, v) },
		func(err error) { c.rejected = append(c.rejected, err) },
	)
}

func TestGate(t *testing.T) {
	errTest := errors.New("whatever")

	tests := map[string]struct {
		run         func(g *gate.Gate[string], c *calls)
		expExists   bool
		expResolved []string
		expRejected []error
	}{
		"A new gate should not have pending requests.": {
			run:       func(g *gate.Gate[string], c *calls) {},
			expExists: false,
		},
		"A requested gate should have a pending request.": {
			run:       func(g *gate.Gate[string], c *calls) { c.request(g) },
			expExists: true,
		},
		"Resolving a pending request should call the resolve continuation and clear it.": {
			run: func(g *gate.Gate[string], c *calls) {
				c.request(g)
				g.Resolve("ok")
			},
			expExists:   false,
			expResolved: []string{"ok"},
		},
		"Rejecting a pending request should call the reject continuation and clear it.": {
			run: func(g *gate.Gate[string], c *calls) {
				c.request(g)
				g.Reject(errTest)
			},
			expExists:   false,
			expRejected: []error{errTest},
		},
		"Settling twice should call the continuations once.": {
			run: func(g *gate.Gate[string], c *calls) {
				c.request(g)
				g.Resolve("first")
				g.Resolve("second")
				g.Reject(errTest)
			},
			expExists:   false,
			expResolved: []string{"first"},
		},
		"Settling without a pending request should be a no-op.": {
			run: func(g *gate.Gate[string], c *calls) {
				g.Resolve("ok")
				g.Reject(errTest)
			},
			expExists: false,
		},
		"A second request should supersede the first one.": {
			run: func(g *gate.Gate[string], c *calls) {
				c.request(g)
				c.request(g)
				g.Resolve("ok")
			},
			expExists:   false,
			expResolved: []string{"ok"},
			expRejected: []error{model.ErrSuperseded},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			g := gate.New[string](gate.Config{Name: "test"})
			c := &calls{}
			test.run(g, c)

			assert.Equal(test.expExists, g.Exists())
			assert.Equal(test.expResolved, c.resolved)
			require.Len(t, c.rejected, len(test.expRejected))
			for i, expErr := range test.expRejected {
				assert.ErrorIs(c.rejected[i], expErr)
			}
		})
	}
}

func TestGateOnCreated(t *testing.T) {
	assert := assert.New(t)

	created := 0
	var g *gate.Gate[struct{}]
	g = gate.New[struct{}](gate.Config{
		OnCreated: func() {
			created++
			// Runs before the request is installed.
			assert.False(g.Exists())
		},
	})

	g.Request(nil, nil)
	g.Resolve(struct{}{})
	g.Request(nil, nil)

	assert.Equal(2, created)
}

func TestGateSubscribe(t *testing.T) {
	assert := assert.New(t)

	g := gate.New[int](gate.Config{})
	var got []bool
	unsubscribe := g.Subscribe(func(exists bool) { got = append(got, exists) })

	g.Request(nil, nil)
	g.Resolve(1)
	g.Resolve(2) // No-op, no notification.
	unsubscribe()
	g.Request(nil, nil)

	assert.Equal([]bool{true, false}, got)
}

func TestGateAwait(t *testing.T) {
	t.Run("Await should return the resolved value.", func(t *testing.T) {
		g := gate.New[string](gate.Config{})
		g.Subscribe(func(exists bool) {
			if exists {
				go g.Resolve("hello")
			}
		})

		v, err := g.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "hello", v)
		assert.False(t, g.Exists())
	})

	t.Run("Await should return the rejection error.", func(t *testing.T) {
		g := gate.New[string](gate.Config{})
		g.Subscribe(func(exists bool) {
			if exists {
				go g.Reject(model.ErrCancelled)
			}
		})

		_, err := g.Await(context.Background())
		assert.ErrorIs(t, err, model.ErrCancelled)
	})

	t.Run("Await should withdraw the request when the context is done.", func(t *testing.T) {
		g := gate.New[string](gate.Config{})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := g.Await(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, g.Exists())
	})

	t.Run("A superseded await should not hang.", func(t *testing.T) {
		g := gate.New[string](gate.Config{})
		errC := make(chan error, 1)
		installed := make(chan struct{}, 2)
		g.Subscribe(func(exists bool) {
			if exists {
				installed <- struct{}{}
			}
		})

		go func() {
			_, err := g.Await(context.Background())
			errC <- err
		}()
		<-installed
		g.Request(nil, nil)

		select {
		case err := <-errC:
			assert.ErrorIs(t, err, model.ErrSuperseded)
		case <-time.After(time.Second):
			t.Fatal("superseded await did not return")
		}
		assert.True(t, g.Exists())
	})
}

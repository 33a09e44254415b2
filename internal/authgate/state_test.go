package authgate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWhoami struct {
	user User
	err  error
}

func (f *fakeWhoami) Whoami(context.Context) (User, error) {
	return f.user, f.err
}

func TestProviderStartsLoading(t *testing.T) {
	p := NewProvider(&fakeWhoami{}, nil)
	assert.True(t, p.Snapshot().Loading)

	select {
	case <-p.Resolved():
		t.Fatal("resolved channel must stay open while loading")
	default:
	}
}

func TestProviderResolvesAuthenticated(t *testing.T) {
	p := NewProvider(&fakeWhoami{user: User{ID: "u1", DisplayName: "Dana"}}, nil)
	p.Resolve(context.Background())

	s := p.Snapshot()
	assert.False(t, s.Loading)
	assert.True(t, s.Authenticated)
	require.NotNil(t, s.User)
	assert.Equal(t, "Dana", s.User.DisplayName)

	select {
	case <-p.Resolved():
	case <-time.After(time.Second):
		t.Fatal("resolved channel must be closed after resolution")
	}
}

func TestProviderResolveFailureMeansUnauthenticated(t *testing.T) {
	p := NewProvider(&fakeWhoami{err: errors.New("401 unauthorized")}, nil)
	p.Resolve(context.Background())

	s := p.Snapshot()
	assert.False(t, s.Loading)
	assert.False(t, s.Authenticated)
	assert.Nil(t, s.User)
}

func TestProviderResolvesExactlyOnce(t *testing.T) {
	whoami := &fakeWhoami{user: User{DisplayName: "first"}}
	p := NewProvider(whoami, nil)
	p.Resolve(context.Background())

	whoami.user = User{DisplayName: "second"}
	p.Resolve(context.Background())

	require.NotNil(t, p.Snapshot().User)
	assert.Equal(t, "first", p.Snapshot().User.DisplayName)
}

func TestProviderSessionTransitions(t *testing.T) {
	p := NewProvider(&fakeWhoami{err: errors.New("no session")}, nil)
	p.Resolve(context.Background())
	assert.False(t, p.Snapshot().Authenticated)

	p.SetSession(User{DisplayName: "Dana"})
	assert.True(t, p.Snapshot().Authenticated)

	p.ClearSession()
	s := p.Snapshot()
	assert.False(t, s.Authenticated)
	assert.Nil(t, s.User)
}

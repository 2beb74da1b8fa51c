package deconj

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyCorpus = `
- type: stdrule
  detail: past
  con_end: かった
  dec_end: い
  con_tag: uninflectable
  dec_tag: adj-i
`

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tinyCorpus), 0o644))

	repo, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Len())
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRulesMalformedNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- {type: stdrule}\n"), 0o644))

	_, err := LoadRules(path)
	require.ErrorIs(t, err, ErrMalformedRule)
	assert.Contains(t, err.Error(), path)
}

func TestLoaderRunsOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	l := NewLoader(func() (*Repository, error) {
		calls.Add(1)
		<-release
		return DefaultRules()
	})

	var wg sync.WaitGroup
	repos := make([]*Repository, 8)
	for i := range repos {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Start()
			repo, err := l.Wait(context.Background())
			assert.NoError(t, err)
			repos[i] = repo
		}()
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, repo := range repos {
		assert.Same(t, repos[0], repo)
	}
}

func TestLoaderError(t *testing.T) {
	boom := errors.New("boom")
	l := NewLoader(func() (*Repository, error) { return nil, boom })

	for i := 0; i < 2; i++ {
		repo, err := l.Wait(context.Background())
		assert.Nil(t, repo)
		assert.ErrorIs(t, err, boom)
	}
}

func TestLoaderWaitCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	l := NewLoader(func() (*Repository, error) {
		<-release
		return nil, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case <-l.Done():
		t.Fatal("load finished before release")
	default:
	}
}

func TestLoaderDefault(t *testing.T) {
	repo, err := NewLoader(nil).Wait(context.Background())
	require.NoError(t, err)
	want, err := DefaultRules()
	require.NoError(t, err)
	assert.Same(t, want, repo)
}

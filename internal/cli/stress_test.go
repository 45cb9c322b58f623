package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/logroute"
)

func TestRunStress_LeavesRepositoryConsistent(t *testing.T) {
	repo := logroute.NewRepository(logroute.RepositoryConfig{Diagnostics: logroute.Discard})
	rep, err := RunStress(context.Background(), repo, StressOptions{
		Producers:          6,
		Reconfigurers:      3,
		IDsPerReconfigurer: 4,
		Duration:           200 * time.Millisecond,
		FailEvery:          3,
		Seed:               7,
		Checkpoints:        5,
	})
	require.NoError(t, err)
	require.NotZero(t, rep.Produced)
	require.NotZero(t, rep.Reconfigs)
	require.Equal(t, 5, rep.Checkpoints)
	require.Equal(t, len(repo.ObserverIDs()), rep.Stats.Observers)
}

func TestRunStress_RejectsBadOptions(t *testing.T) {
	repo := logroute.NewRepository(logroute.RepositoryConfig{})
	_, err := RunStress(context.Background(), repo, StressOptions{Producers: 0, Duration: time.Second})
	require.ErrorIs(t, err, logroute.ErrInvalidArgument)
}

func TestVerifyRepository_DetectsDrift(t *testing.T) {
	repo := logroute.NewRepository(logroute.RepositoryConfig{})
	nop := logroute.ObserverFunc(func(logroute.Event) error { return nil })
	require.NoError(t, repo.AddObserver("a", logroute.LevelWarn, nop))
	require.NoError(t, repo.AddObserver("silent", logroute.LevelNone, nop))

	require.NoError(t, VerifyRepository(repo, map[string]logroute.Level{
		"a":      logroute.LevelWarn,
		"silent": logroute.LevelNone,
	}))
	err := VerifyRepository(repo, map[string]logroute.Level{
		"a":      logroute.LevelInfo,
		"silent": logroute.LevelNone,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), `"a"`)
}

func TestStressCommand_Runs(t *testing.T) {
	for _, backend := range []string{"zap", "zerolog", "slog"} {
		t.Run(backend, func(t *testing.T) {
			var out bytes.Buffer
			root := NewRootCommand()
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs([]string{"stress", "--backend", backend, "--duration", "50ms", "--producers", "2", "--reconfigurers", "1", "--checkpoints", "2"})
			require.NoError(t, root.Execute())
			require.Contains(t, out.String(), "stress finished, repository consistent")
		})
	}
}

func TestStressCommand_UnknownBackend(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"stress", "--backend", "syslog", "--duration", "10ms"})
	err := root.Execute()
	require.True(t, errors.Is(err, logroute.ErrInvalidArgument), "got %v", err)
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc")
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	require.True(t, strings.HasPrefix(out.String(), "logroute 1.2.3"))
}

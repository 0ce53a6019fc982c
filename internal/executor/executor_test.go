package executor_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libforge/libforge/internal/config"
	"github.com/libforge/libforge/internal/dag"
	"github.com/libforge/libforge/internal/executor"
	"github.com/libforge/libforge/internal/registry"
)

// recordingHandler appends the address of every target it builds, in order.
type recordingHandler struct {
	mu       sync.Mutex
	built    []string
	failWith map[string]error
}

func (h *recordingHandler) Build(ctx context.Context, env *registry.BuildEnv, t *config.Target) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	addr := t.Address()
	if err, ok := h.failWith[addr]; ok {
		return "", err
	}
	h.built = append(h.built, addr)
	return "/artifacts/" + addr, nil
}

func (h *recordingHandler) builtOrder() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.built...)
}

func setup(t *testing.T, handler registry.Handler, targets ...*config.Target) *dag.Graph {
	t.Helper()

	model := config.NewModel()
	for _, target := range targets {
		model.Targets[target.Address()] = target
	}

	reg := registry.New()
	for _, kind := range []string{config.KindSharedLibrary, config.KindStaticLibrary, config.KindPrelinkedArchive} {
		reg.Register(kind, handler)
	}

	graph, err := dag.Build(context.Background(), model, reg)
	require.NoError(t, err)
	return graph
}

func newExecutor(graph *dag.Graph, handler registry.Handler) *executor.Executor {
	reg := registry.New()
	for _, kind := range []string{config.KindSharedLibrary, config.KindStaticLibrary, config.KindPrelinkedArchive} {
		reg.Register(kind, handler)
	}
	return executor.New(graph, 4, reg, nil, "out")
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("dependencies build before dependents", func(t *testing.T) {
		handler := &recordingHandler{}
		graph := setup(t, handler,
			&config.Target{Kind: config.KindSharedLibrary, Name: "demo"},
			&config.Target{Kind: config.KindStaticLibrary, Name: "demo"},
			&config.Target{Kind: config.KindPrelinkedArchive, Name: "demo", Source: "shared_library.demo"},
		)

		require.NoError(t, newExecutor(graph, handler).Run(ctx))

		order := handler.builtOrder()
		require.Len(t, order, 3)
		sharedIdx := indexOf(order, "shared_library.demo")
		preIdx := indexOf(order, "prelinked_archive.demo")
		require.GreaterOrEqual(t, sharedIdx, 0)
		require.GreaterOrEqual(t, preIdx, 0)
		assert.Less(t, sharedIdx, preIdx)

		n, ok := graph.Node("prelinked_archive.demo")
		require.True(t, ok)
		assert.Equal(t, dag.Done, n.GetState())
		assert.Equal(t, "/artifacts/prelinked_archive.demo", n.ArtifactPath)
	})

	t.Run("dependents see dependency artifacts", func(t *testing.T) {
		var gotArtifacts map[string]string
		handler := &envCapturingHandler{capture: func(addr string, env *registry.BuildEnv) {
			if addr == "prelinked_archive.demo" {
				gotArtifacts = env.Artifacts
			}
		}}

		graph := setup(t, handler,
			&config.Target{Kind: config.KindSharedLibrary, Name: "demo"},
			&config.Target{Kind: config.KindPrelinkedArchive, Name: "demo", Source: "shared_library.demo"},
		)

		require.NoError(t, newExecutor(graph, handler).Run(ctx))
		assert.Equal(t, map[string]string{"shared_library.demo": "/artifacts/shared_library.demo"}, gotArtifacts)
	})

	t.Run("failure skips dependents", func(t *testing.T) {
		boom := fmt.Errorf("cc exited with status 1")
		handler := &recordingHandler{failWith: map[string]error{"shared_library.demo": boom}}
		graph := setup(t, handler,
			&config.Target{Kind: config.KindSharedLibrary, Name: "demo"},
			&config.Target{Kind: config.KindPrelinkedArchive, Name: "demo", Source: "shared_library.demo"},
		)

		err := newExecutor(graph, handler).Run(ctx)
		require.Error(t, err)
		assert.ErrorContains(t, err, "cc exited with status 1")
		assert.ErrorContains(t, err, "skipped: dependency shared_library.demo failed")

		n, ok := graph.Node("prelinked_archive.demo")
		require.True(t, ok)
		assert.Equal(t, dag.Failed, n.GetState())
		assert.NotContains(t, handler.builtOrder(), "prelinked_archive.demo")
	})

	t.Run("empty graph is a no-op", func(t *testing.T) {
		handler := &recordingHandler{}
		graph := setup(t, handler)
		require.NoError(t, newExecutor(graph, handler).Run(ctx))
		assert.Empty(t, handler.builtOrder())
	})
}

// envCapturingHandler lets a test observe the BuildEnv a node receives.
type envCapturingHandler struct {
	capture func(addr string, env *registry.BuildEnv)
}

func (h *envCapturingHandler) Build(ctx context.Context, env *registry.BuildEnv, t *config.Target) (string, error) {
	h.capture(t.Address(), env)
	return "/artifacts/" + t.Address(), nil
}

func indexOf(s []string, v string) int {
	for i, e := range s {
		if e == v {
			return i
		}
	}
	return -1
}

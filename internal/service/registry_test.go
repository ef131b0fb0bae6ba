package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/york1996-max/filebridge/internal/fileaccess"
	"github.com/york1996-max/filebridge/internal/translator"
	"github.com/york1996-max/filebridge/internal/types"
)

func newVirtualProvider(t *testing.T, id string, files map[string]string) *translator.Provider {
	t.Helper()
	access := fileaccess.NewVirtual()
	for p, content := range files {
		require.NoError(t, access.Put(p, []byte(content), time.Now()))
	}
	return translator.New(id, types.CategoryVirtual, access, translator.DefaultConfig(), nil)
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newVirtualProvider(t, "alpha", nil)))

	_, ok := r.Get("alpha")
	assert.True(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)

	r.Unregister("alpha")
	_, ok = r.Get("alpha")
	assert.False(t, ok)
}

func TestListSortedAndFiltered(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newVirtualProvider(t, "beta", nil)))
	require.NoError(t, r.Register(newVirtualProvider(t, "alpha", nil)))

	services := r.List(nil)
	require.Len(t, services, 2)
	assert.Equal(t, "alpha", services[0].ID)
	assert.Equal(t, "beta", services[1].ID)

	local := types.CategoryLocal
	assert.Empty(t, r.List(&local))
}

func TestCreateExecutionDispatch(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newVirtualProvider(t, "docs", map[string]string{
		"readme.txt": "hello",
	})))

	exec, err := r.CreateExecution(context.Background(), "docs.getTextFiles", translator.Request{Path: "readme.txt"})
	require.NoError(t, err)
	defer exec.Close()

	rec, err := exec.Next()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "readme.txt", rec.Name)
}

func TestCreateExecutionErrors(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newVirtualProvider(t, "docs", nil)))

	_, err := r.CreateExecution(context.Background(), "nodot", translator.Request{})
	assert.ErrorContains(t, err, "invalid call ID")

	_, err = r.CreateExecution(context.Background(), "ghost.getFiles", translator.Request{Path: "x"})
	assert.ErrorContains(t, err, "source not found")
}

func TestStats(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newVirtualProvider(t, "a", nil)))
	require.NoError(t, r.Register(newVirtualProvider(t, "b", nil)))

	stats := r.Stats()
	assert.Equal(t, 2, stats["total_sources"])
	assert.Equal(t, 8, stats["total_procedures"])
}

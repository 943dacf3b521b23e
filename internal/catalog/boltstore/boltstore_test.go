package boltstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"floorctl/internal/catalog/storetest"
)

func TestStore(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "floor.db"))
	require.NoError(t, err)
	defer st.Close()

	storetest.TestStore(t, st)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floor.db")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchInvalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	incomePath := filepath.Join(dir, "income.csv")
	laborPath := filepath.Join(dir, "labor.csv")
	require.NoError(t, os.WriteFile(incomePath, []byte("state,date,income_median\nJohor,2022-01-01,7000\n"), 0o644))
	require.NoError(t, os.WriteFile(laborPath, []byte("state,sex,date,p_rate,u_rate\nJohor,both,2022-01-01,68,3.1\n"), 0o644))
	other := filepath.Join(dir, "notes.txt")

	c := NewCache(incomePath, laborPath)
	_, err := c.Get(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, c) }()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	_, err = c.Peek()
	require.NoError(t, err)

	// The watch is registered asynchronously, so keep rewriting the
	// source file until the change is seen.
	require.Eventually(t, func() bool {
		if err := os.WriteFile(incomePath, []byte("state,date,income_median\nJohor,2022-01-01,7100\n"), 0o644); err != nil {
			return false
		}
		_, err := c.Peek()
		return err == ErrNotLoaded
	}, 5*time.Second, 50*time.Millisecond)

	s, err := c.Get(context.Background())
	require.NoError(t, err)
	income, err := s.IncomeTable()
	require.NoError(t, err)
	assert.Equal(t, "7100", income.Record(0).Value(FieldIncomeMedian))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

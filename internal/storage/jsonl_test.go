package storage

import (
	"bufio"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/model"
)

func readLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var out []map[string]interface{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var row map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &row))
		out = append(out, row)
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestJsonlAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.jsonl")
	s := NewJsonlStorage(path)

	require.NoError(t, s.Put(model.SessionEvent{SessionID: "a", From: "idle", To: "checking"}))
	require.NoError(t, s.Put(
		model.SessionEvent{SessionID: "a", From: "checking", To: "approved"},
		model.LiquidityDeposit{ID: "d1", AmountTokenMin: big.NewInt(190), Status: model.DepositPending},
	))
	require.NoError(t, s.Put())

	rows := readLines(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "checking", rows[0]["to"])
	assert.Equal(t, "approved", rows[1]["to"])
	assert.Equal(t, "d1", rows[2]["id"])
	assert.EqualValues(t, 190, rows[2]["amount_token_min"])
}

func TestJsonlMarshalFailureWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	s := NewJsonlStorage(path)

	err := s.Put(model.SessionEvent{SessionID: "ok"}, map[string]interface{}{"bad": make(chan int)})
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

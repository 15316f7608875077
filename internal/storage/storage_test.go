package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	require.Equal(t, "invoice_march_2025.pdf", SanitizeFilename("invoice march 2025.pdf"))
	require.Equal(t, "a_b_c.PDF", SanitizeFilename("a/b&c.PDF"))
	require.Equal(t, "plain.pdf", SanitizeFilename("plain.pdf"))
}

func TestBuildPath(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	path := BuildPath("invoices", "42", "final invoice.pdf", now)
	require.Equal(t, "invoices/42/1700000000000_final_invoice.pdf", path)

	path = BuildPath("auto", "new", "scan#1.png", now)
	require.Equal(t, "auto/new/1700000000000_scan_1.png", path)
}

func TestLocalStore_PutRemoveURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)

	url, err := store.Put("invoices/7/1_test.pdf", strings.NewReader("file body"))
	require.NoError(t, err)
	require.Equal(t, "/uploads/invoices/7/1_test.pdf", url)

	data, err := os.ReadFile(filepath.Join(dir, "invoices", "7", "1_test.pdf"))
	require.NoError(t, err)
	require.Equal(t, "file body", string(data))

	require.Equal(t, "", store.URL(""))

	require.NoError(t, store.Remove("invoices/7/1_test.pdf"))
	_, err = os.Stat(filepath.Join(dir, "invoices", "7", "1_test.pdf"))
	require.True(t, os.IsNotExist(err))
}

package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExtractor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cv-1.txt"), []byte("ten years of Go\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cv-2.md"), []byte("# Resume"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("   \n"), 0o644))

	e := NewFileExtractor(dir)
	ctx := context.Background()

	text, err := e.ExtractText(ctx, "cv-1")
	require.NoError(t, err)
	assert.Equal(t, "ten years of Go", text)

	text, err = e.ExtractText(ctx, "cv-2")
	require.NoError(t, err)
	assert.Equal(t, "# Resume", text)

	var extErr *ExtractionError

	_, err = e.ExtractText(ctx, "missing")
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "missing", extErr.FileID)

	_, err = e.ExtractText(ctx, "empty")
	require.ErrorAs(t, err, &extErr)

	_, err = e.ExtractText(ctx, "../outside")
	require.ErrorAs(t, err, &extErr)
}

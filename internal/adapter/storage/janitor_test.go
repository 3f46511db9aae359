package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/storage"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/storage/local"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineJanitor_DeletesInBackground(t *testing.T) {
	root := t.TempDir()
	store, err := local.NewStorage(root, logger.NewNop())
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "profile", domain.Upload{Filename: "me.png", Content: strings.NewReader("png")})
	require.NoError(t, err)

	j := storage.NewInlineJanitor(store, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, j.Enqueue(ctx, ref))
	cancel()
	j.Wait()

	_, err = os.Stat(filepath.Join(root, strings.TrimPrefix(ref, local.URLPrefix)))
	assert.True(t, os.IsNotExist(err))
}

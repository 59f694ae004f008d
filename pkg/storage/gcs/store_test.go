// Copyright © 2025 CoReason, Inc.

package gcs

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"testing"

	gcsStorage "cloud.google.com/go/storage"
	"github.com/coreason-ai/publisher/internal/rand"
	"github.com/coreason-ai/publisher/pkg/errors"
	"github.com/coreason-ai/publisher/pkg/storage"
	"github.com/coreason-ai/publisher/pkg/storage/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// these tests run against a real bucket and are skipped unless
// application default credentials and a test project are configured

func setup(t testing.TB) (storage.Store, func()) {
	t.Helper()

	project := os.Getenv("PUBLISHER_TEST_GCS_PROJECT")
	if project == "" {
		t.Skip("PUBLISHER_TEST_GCS_PROJECT not set")
	}

	ctx := context.Background()
	bucket := "deleteme-publishertest-" + rand.LetterString(15)

	client, err := gcsStorage.NewClient(ctx, option.WithScopes(gcsStorage.ScopeFullControl))
	require.NoError(t, err)
	require.NoError(t, client.Bucket(bucket).Create(ctx, project, nil),
		"failed to create bucket %s", bucket)

	store, err := New(ctx, bucket, "")
	require.NoError(t, err)

	cleanup := func() {
		_ = store.Clear(ctx)
		_ = client.Bucket(bucket).Delete(ctx)
	}
	return store, cleanup
}

func TestPutGetRoundTrip(t *testing.T) {
	store, cleanup := setup(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "offloaded/object", bytes.NewBufferString("payload"), storage.OverWrite))

	has, err := store.Has(ctx, "offloaded/object")
	require.NoError(t, err)
	assert.True(t, has)

	rdr, err := store.Get(ctx, "offloaded/object")
	require.NoError(t, err)
	b, err := ioutil.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "payload", string(b))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"offloaded/object"}, keys)
}

func TestExclusivePut(t *testing.T) {
	store, cleanup := setup(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "once", bytes.NewBufferString("first"), storage.NoOverWrite))

	err := store.Put(ctx, "once", bytes.NewBufferString("second"), storage.NoOverWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))
}

func TestGetMissing(t *testing.T) {
	store, cleanup := setup(t)
	defer cleanup()

	_, err := store.Get(context.Background(), "no-such-object")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists))
}

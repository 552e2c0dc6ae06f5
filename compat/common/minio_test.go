package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bsthun/gut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.scnd.dev/open/crank"
)

func TestMinio(t *testing.T) {
	client, err := Minio(&crank.PublishConfig{
		Endpoint:  gut.Ptr("https://storage.example.com"),
		Bucket:    gut.Ptr("docs"),
		AccessKey: gut.Ptr("access"),
		SecretKey: gut.Ptr("secret"),
	})
	require.NoError(t, err)
	assert.Equal(t, "storage.example.com", client.EndpointURL().Host)
	assert.Equal(t, "https", client.EndpointURL().Scheme)
}

func TestUploads(t *testing.T) {
	root := site(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "search.json"), []byte("{}"), 0644))

	uploads, err := Uploads(root, "rush/latest")
	require.NoError(t, err)

	keys := make(map[string]string)
	for _, upload := range uploads {
		keys[upload.Key] = upload.Path
	}
	assert.Equal(t, map[string]string{
		"rush/latest/api/index.html": filepath.Join(root, "api", "index.html"),
		"rush/latest/index.html":     filepath.Join(root, "index.html"),
		"rush/latest/search.json":    filepath.Join(root, "search.json"),
	}, keys)
}

func TestUploadsWithoutPrefix(t *testing.T) {
	uploads, err := Uploads(site(t), "")
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.Equal(t, "api/index.html", uploads[0].Key)
	assert.Equal(t, "index.html", uploads[1].Key)
}

func TestUploadsMissingDirectory(t *testing.T) {
	_, err := Uploads(filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)
}

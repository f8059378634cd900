package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetClient_Upload_Success(t *testing.T) {
	var gotFilename string
	var gotContent []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/upload", r.URL.Path)

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()

		gotFilename = header.Filename
		gotContent, err = io.ReadAll(file)
		require.NoError(t, err)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/photo.jpg"})
	}))
	defer server.Close()

	client := NewAssetClient(server.URL, 5*time.Second)

	url, err := client.Upload(context.Background(), "photo.jpg", []byte("image-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/photo.jpg", url)
	assert.Equal(t, "photo.jpg", gotFilename)
	assert.Equal(t, []byte("image-bytes"), gotContent)
}

func TestAssetClient_Upload_SendsAuthToken(t *testing.T) {
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/photo.jpg"})
	}))
	defer server.Close()

	client := NewAssetClient(server.URL, 5*time.Second)
	client.SetAuthToken("token-123")

	_, err := client.Upload(context.Background(), "photo.jpg", []byte("data"))

	require.NoError(t, err)
	assert.Equal(t, "Bearer token-123", gotAuth)
}

func TestAssetClient_Upload_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewAssetClient(server.URL, 5*time.Second)

	url, err := client.Upload(context.Background(), "photo.jpg", []byte("data"))

	assert.Empty(t, url)
	assert.ErrorContains(t, err, "unexpected status code")
}

func TestAssetClient_Upload_EmptyURLRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"url": ""})
	}))
	defer server.Close()

	client := NewAssetClient(server.URL, 5*time.Second)

	url, err := client.Upload(context.Background(), "photo.jpg", []byte("data"))

	assert.Empty(t, url)
	assert.ErrorContains(t, err, "empty url")
}

func TestAssetClient_Upload_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	client := NewAssetClient(server.URL, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Upload(ctx, "photo.jpg", []byte("data"))
	assert.Error(t, err)
}

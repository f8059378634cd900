package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/pkg/metrics"
)

// AssetClient клиент внешнего asset storage.
// Сервис принимает одно бинарное изображение и возвращает постоянный URL,
// под которым файл доступен витрине.
type AssetClient struct {
	baseURL    string
	httpClient *http.Client
	authToken  string // JWT токен для аутентификации в asset storage
}

// NewAssetClient создает новый клиент asset storage
func NewAssetClient(baseURL string, timeout time.Duration) *AssetClient {
	return &AssetClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetAuthToken устанавливает JWT токен для аутентификации
func (c *AssetClient) SetAuthToken(token string) {
	c.authToken = token
}

// Upload загружает одно изображение и возвращает его постоянный URL.
// Одна попытка без повторов: ошибка поднимается вызывающему, который
// прерывает мутацию целиком.
func (c *AssetClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	start := time.Now()
	url, err := c.upload(ctx, filename, data)
	metrics.RecordUpload("admin", err, time.Since(start))
	return url, err
}

func (c *AssetClient) upload(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var uploaded entity.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if uploaded.URL == "" {
		return "", fmt.Errorf("asset storage returned empty url")
	}

	return uploaded.URL, nil
}

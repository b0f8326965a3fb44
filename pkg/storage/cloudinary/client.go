package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/karunasetu/karuna-backend/pkg/config"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

// Client talks to the Cloudinary upload REST API directly. Requests are
// signed with the SHA-1 scheme the API expects: sorted params joined with &,
// secret appended.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      config.CloudinaryCredentials
	now        func() time.Time
}

func NewClient(creds config.CloudinaryCredentials) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		creds:      creds,
		now:        time.Now,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type destroyResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload pushes the buffer to the image upload endpoint and returns the
// hosted URL plus the public id needed for a later destroy.
func (c *Client) Upload(ctx context.Context, data []byte, filename, folder string) (string, string, error) {
	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if folder != "" {
		params["folder"] = folder
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return "", "", fmt.Errorf("building upload request: %w", err)
		}
	}
	if err := writer.WriteField("api_key", c.creds.APIKey); err != nil {
		return "", "", fmt.Errorf("building upload request: %w", err)
	}
	if err := writer.WriteField("signature", c.sign(params)); err != nil {
		return "", "", fmt.Errorf("building upload request: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", "", fmt.Errorf("building upload request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", "", fmt.Errorf("building upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", "", fmt.Errorf("building upload request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.creds.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", "", fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var parsed uploadResponse
	if err := c.do(req, &parsed); err != nil {
		return "", "", err
	}
	if parsed.Error != nil {
		return "", "", fmt.Errorf("cloudinary upload rejected: %s", parsed.Error.Message)
	}
	if parsed.SecureURL == "" || parsed.PublicID == "" {
		return "", "", fmt.Errorf("cloudinary upload returned incomplete response")
	}
	return parsed.SecureURL, parsed.PublicID, nil
}

// Destroy removes a hosted asset by public id. An already-gone asset is not
// an error.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("api_key", c.creds.APIKey)
	form.Set("signature", c.sign(params))

	endpoint := fmt.Sprintf("%s/%s/image/destroy", c.baseURL, c.creds.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var parsed destroyResponse
	if err := c.do(req, &parsed); err != nil {
		return err
	}
	if parsed.Error != nil {
		return fmt.Errorf("cloudinary destroy rejected: %s", parsed.Error.Message)
	}
	if parsed.Result != "ok" && parsed.Result != "not found" {
		return fmt.Errorf("cloudinary destroy returned %q", parsed.Result)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling cloudinary: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading cloudinary response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("cloudinary returned status %d with unparseable body", resp.StatusCode)
	}
	return nil
}

// sign implements Cloudinary's request signing: params sorted by key, joined
// as key=value pairs with &, API secret appended, SHA-1 hex digest.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.creds.APISecret))
	return hex.EncodeToString(sum[:])
}

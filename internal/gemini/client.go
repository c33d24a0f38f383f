// Package gemini wraps the Gemini API behind a small invocation interface so
// the pipeline components depend on "prompt in, text out" rather than on the
// SDK. The client is created once at process start and injected everywhere.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// ErrGeneration wraps every failure of the generation capability: timeouts,
// quota errors, and empty or malformed responses. Callers are expected to
// recover locally with their fallback values.
var ErrGeneration = errors.New("gemini: generation failed")

// FileRef points at a file previously uploaded to the Gemini Files API,
// attached to a call as long-context material.
type FileRef struct {
	URI         string
	MIMEType    string
	DisplayName string
}

// Request describes a single generation call.
type Request struct {
	Prompt      string
	Schema      *genai.Schema // optional structured-output schema
	Files       []FileRef     // optional long-context attachments
	Temperature float32
	Plain       bool // request text/plain instead of JSON
}

// Invoker is the generation capability consumed by the pipeline.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (string, error)
}

// Client is the genai-backed Invoker.
type Client struct {
	genai   *genai.Client
	model   string
	timeout time.Duration
}

// NewClient creates a Gemini client for the given model. Timeout bounds each
// individual generation call; a timed-out call fails like any other.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{genai: gc, model: model, timeout: timeout}, nil
}

// Invoke performs one generation call and returns the raw response text.
func (c *Client) Invoke(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	for _, f := range req.Files {
		parts = append(parts, genai.NewPartFromURI(f.URI, f.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(req.Temperature),
		ResponseMIMEType: "application/json",
	}
	if req.Plain {
		cfg.ResponseMIMEType = "text/plain"
	}
	if req.Schema != nil {
		cfg.ResponseSchema = req.Schema
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}
	return text, nil
}

// UploadFile pushes a local file to the Gemini Files API and returns its
// remote name and reference.
func (c *Client) UploadFile(ctx context.Context, path, displayName, mimeType string) (string, FileRef, error) {
	f, err := c.genai.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		DisplayName: displayName,
		MIMEType:    mimeType,
	})
	if err != nil {
		return "", FileRef{}, fmt.Errorf("upload file %q: %w", displayName, err)
	}
	return f.Name, FileRef{URI: f.URI, MIMEType: f.MIMEType, DisplayName: displayName}, nil
}

// DeleteFile removes a previously uploaded file by its remote name.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	if _, err := c.genai.Files.Delete(ctx, name, nil); err != nil {
		return fmt.Errorf("delete file %q: %w", name, err)
	}
	return nil
}

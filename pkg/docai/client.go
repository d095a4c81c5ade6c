package docai

import (
	"context"
	"fmt"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/doclensbot/doclens/pkg/logger"
)

// callTimeout bounds a single processor call. No retries: a failure
// propagates straight to the orchestrator.
const callTimeout = 120 * time.Second

// Options configures the Document AI client.
type Options struct {
	ProjectID             string
	Location              string
	ProcessorID           string // text extraction
	SummarizerProcessorID string
	CredentialsPath       string
}

// Client wraps the Document AI processor API. One client serves both
// the extraction and the summarization processor; they live in the
// same project and location.
type Client struct {
	client *documentai.DocumentProcessorClient
	opts   Options
}

// NewClient connects to the regional Document AI endpoint using the
// configured service account credentials file.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", opts.Location)

	client, err := documentai.NewDocumentProcessorClient(
		ctx,
		option.WithEndpoint(endpoint),
		option.WithCredentialsFile(opts.CredentialsPath),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: creating client: %v", ErrRemoteService, err)
	}

	return &Client{client: client, opts: opts}, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Extract submits raw file bytes to the extraction processor and
// returns the recognized text.
func (c *Client) Extract(ctx context.Context, content []byte, mimeType string) (string, error) {
	doc, err := c.process(ctx, c.opts.ProcessorID, content, mimeType)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(doc.GetText())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Summarize submits already-extracted text to the summarizer
// processor. The summary is assembled from the processor's "summary"
// entities, falling back to the document text when none are present.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	doc, err := c.process(ctx, c.opts.SummarizerProcessorID, []byte(text), "text/plain")
	if err != nil {
		return "", err
	}

	summary := summaryFromDocument(doc)
	if summary == "" {
		return "", ErrNoText
	}
	return summary, nil
}

func (c *Client) process(ctx context.Context, processorID string, content []byte, mimeType string) (*documentaipb.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	name := processorPath(c.opts.ProjectID, c.opts.Location, processorID)

	req := &documentaipb.ProcessRequest{
		Name: name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType,
			},
		},
		SkipHumanReview: true,
	}

	start := time.Now()
	resp, err := c.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: processing with %s: %v", ErrRemoteService, processorID, err)
	}

	logger.DebugCF("docai", "Processor call completed", map[string]interface{}{
		"processor":   processorID,
		"mime_type":   mimeType,
		"input_bytes": len(content),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return resp.GetDocument(), nil
}

func processorPath(projectID, location, processorID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", projectID, location, processorID)
}

func summaryFromDocument(doc *documentaipb.Document) string {
	var b strings.Builder
	for _, entity := range doc.GetEntities() {
		if entity.GetType() == "summary" {
			b.WriteString(entity.GetMentionText())
			b.WriteString("\n")
		}
	}

	summary := strings.TrimSpace(b.String())
	if summary == "" {
		summary = strings.TrimSpace(doc.GetText())
	}
	return summary
}

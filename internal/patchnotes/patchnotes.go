// Package patchnotes fetches game patch notes as HTML and condenses them
// into a single readable paragraph via the generation service.
package patchnotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/sirupsen/logrus"

	"github.com/botforge/botgate/internal/llmclient"
)

const summarizeInstruction = `Summarize all important changes into a single, clear paragraph.
Maintain a professional and neutral tone — do not include informal phrases, introductions, or conclusions.
Avoid bullet points and lists. Focus on rewriting the content as a polished summary of the patch only.
Start every paragraph with "Patch [patch-id]"`

var (
	imagePattern = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkPattern  = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
)

// Extract converts raw patch-note HTML into plain markdown, dropping
// images and link targets the way the upstream pages embed them.
func Extract(html string) (string, error) {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert patch HTML: %w", err)
	}
	md = imagePattern.ReplaceAllString(md, "")
	md = linkPattern.ReplaceAllString(md, "$1")
	return strings.TrimSpace(md), nil
}

// Summarizer fetches patch notes from an upstream endpoint and summarizes
// them through the generation service.
type Summarizer struct {
	endpoint  string
	generator llmclient.Generator
	client    *http.Client
}

// NewSummarizer creates a summarizer rooted at endpoint; patch IDs are
// appended to it verbatim.
func NewSummarizer(endpoint string, generator llmclient.Generator) *Summarizer {
	return &Summarizer{
		endpoint:  endpoint,
		generator: generator,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// upstreamPayload is the JSON shape served by the patch endpoint
type upstreamPayload struct {
	Body    string `json:"body"`
	Message string `json:"message"`
}

// Summarize fetches the notes for patchID and returns a one-paragraph
// summary. An upstream error message is returned as-is to the caller.
func (s *Summarizer) Summarize(ctx context.Context, patchID string) (string, error) {
	url := s.endpoint + patchID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build patch request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch patch notes: %w", err)
	}
	defer resp.Body.Close()

	var payload upstreamPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode patch payload: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return payload.Message, nil
	}

	cleaned, err := Extract(payload.Body)
	if err != nil {
		return "", err
	}

	logrus.Debugf("Summarizing patch %s (%d chars of notes)", patchID, len(cleaned))
	return s.generator.Generate(ctx, llmclient.Request{
		SystemMessage: summarizeInstruction,
		Prompt:        "The following is a raw extract of patch notes:\n\n" + cleaned,
	})
}

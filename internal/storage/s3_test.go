package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func testClient(t *testing.T, publicURL string) *Client {
	t.Helper()
	c, err := New("https://s3.example.com", "eu-central", "key", "secret", "mizan-assets", publicURL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c == nil {
		t.Fatal("expected client, got nil")
	}
	return c
}

func TestNewUnconfiguredReturnsNil(t *testing.T) {
	c, err := New("", "", "", "", "", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Error("expected nil client without credentials")
	}
}

func TestKeyFormats(t *testing.T) {
	id := uuid.New()

	key := DiagramKey(id, "court-structure.PNG")
	if !strings.HasPrefix(key, "diagrams/"+id.String()+"_") {
		t.Errorf("diagram key prefix: %s", key)
	}
	if !strings.HasSuffix(key, ".PNG") {
		t.Errorf("diagram key must keep the upload extension: %s", key)
	}

	thumb := DiagramThumbKey(id)
	if !strings.HasPrefix(thumb, "diagrams/thumbs/") || !strings.HasSuffix(thumb, ".jpg") {
		t.Errorf("thumb key: %s", thumb)
	}

	pdf := TemplateKey(id)
	if !strings.HasPrefix(pdf, "templates/template_"+id.String()+"_") || !strings.HasSuffix(pdf, ".pdf") {
		t.Errorf("template key: %s", pdf)
	}
}

func TestFileURLAndExtractRoundTrip(t *testing.T) {
	// Path-style URL when no CDN is configured.
	c := testClient(t, "")
	url := c.FileURL("diagrams/abc.png")
	if url != "https://s3.example.com/mizan-assets/diagrams/abc.png" {
		t.Errorf("path-style url: %s", url)
	}
	if key, ok := c.ExtractS3Key(url); !ok || key != "diagrams/abc.png" {
		t.Errorf("extract from path-style: %q, %v", key, ok)
	}

	// CDN URL when configured.
	c = testClient(t, "https://cdn.example.com/")
	url = c.FileURL("templates/t.pdf")
	if url != "https://cdn.example.com/templates/t.pdf" {
		t.Errorf("cdn url: %s", url)
	}
	if key, ok := c.ExtractS3Key(url); !ok || key != "templates/t.pdf" {
		t.Errorf("extract from cdn: %q, %v", key, ok)
	}

	if _, ok := c.ExtractS3Key("https://elsewhere.example.com/x.png"); ok {
		t.Error("foreign URL must not extract")
	}
}

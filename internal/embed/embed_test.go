package embed

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestParsePreviewOpenGraph(t *testing.T) {
	html := `<html><head>
		<title>Fallback Title</title>
		<meta property="og:title" content="Ladies Night at The Attic" >
		<meta property="og:description" content="Every Friday from 9pm">
		<meta property="og:image" content="https://cdn.example.com/cover.jpg">
		<meta property="og:site_name" content="Instagram">
	</head><body></body></html>`

	preview := ParsePreview("https://instagram.com/p/abc", html)

	if preview.Title != "Ladies Night at The Attic" {
		t.Errorf("title = %q", preview.Title)
	}
	if preview.Description != "Every Friday from 9pm" {
		t.Errorf("description = %q", preview.Description)
	}
	if preview.Image != "https://cdn.example.com/cover.jpg" {
		t.Errorf("image = %q", preview.Image)
	}
	if preview.SiteName != "Instagram" {
		t.Errorf("site name = %q", preview.SiteName)
	}
}

func TestParsePreviewFallsBackToTitleTag(t *testing.T) {
	html := `<html><head><title> Sky Bar Happy Hour </title></head><body></body></html>`

	preview := ParsePreview("https://youtu.be/xyz", html)
	if preview.Title != "Sky Bar Happy Hour" {
		t.Errorf("title = %q, want trimmed title tag", preview.Title)
	}
}

func TestParsePreviewPrefersOGDescription(t *testing.T) {
	html := `<head>
		<meta name="description" content="plain description">
		<meta property="og:description" content="og description">
	</head>`

	preview := ParsePreview("https://instagram.com/p/abc", html)
	if preview.Description != "og description" {
		t.Errorf("description = %q, want og:description to win", preview.Description)
	}
}

func TestFetchRejectsDisallowedHosts(t *testing.T) {
	f := NewFetcher(slog.New(slog.DiscardHandler))

	_, err := f.Fetch(context.Background(), "https://evil.example.com/page")
	if !errors.Is(err, ErrHostNotAllowed) {
		t.Errorf("error = %v, want ErrHostNotAllowed", err)
	}
}

func TestFetchRejectsNonHTTPS(t *testing.T) {
	f := NewFetcher(slog.New(slog.DiscardHandler))

	if _, err := f.Fetch(context.Background(), "http://instagram.com/p/abc"); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("error = %v, want ErrInvalidURL for plain http URL", err)
	}
	if _, err := f.Fetch(context.Background(), "not a url"); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("error = %v, want ErrInvalidURL for malformed URL", err)
	}
}

func TestFetchAllowsExtraHosts(t *testing.T) {
	f := NewFetcher(slog.New(slog.DiscardHandler), "maps.example.com")

	// The fetch itself will fail (no network in tests), but it must get past
	// the allow list.
	_, err := f.Fetch(context.Background(), "https://maps.example.com/venue")
	if errors.Is(err, ErrHostNotAllowed) {
		t.Error("extra host rejected by allow list")
	}
}

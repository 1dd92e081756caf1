// Package research collects company page snippets used as grounding material
// for the company research agent.
package research

import (
	"context"
	"log"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/careerflow-agent/internal/fetch"
)

const (
	// DefaultMaxPages bounds how many pages are fetched per company,
	// including the seed page.
	DefaultMaxPages = 3
	// MaxSnippetLength bounds the text taken from a single page.
	MaxSnippetLength = 2000
	// MaxCorpusLength bounds the total collected material so prompts stay
	// within model context comfortably.
	MaxCorpusLength = 6000
)

// linkMarkers select which same-host links off the seed page are worth
// following for company material.
var linkMarkers = []string{"about", "careers", "culture", "values", "mission", "team"}

// Options configures snippet collection.
type Options struct {
	Fetch *fetch.Options
	// UseBrowser enables headless-browser fallback for JavaScript-rendered
	// pages.
	UseBrowser bool
	Verbose    bool
	MaxPages   int
}

// DefaultOptions returns sensible collection defaults.
func DefaultOptions() *Options {
	return &Options{
		Fetch:    fetch.DefaultOptions(),
		MaxPages: DefaultMaxPages,
	}
}

// Collect fetches the seed URL plus a few discovered about/culture pages and
// returns their cleaned text snippets. Failures on discovered pages are
// logged and skipped; only a failed seed fetch is an error.
func Collect(ctx context.Context, seedURL string, opts *Options) ([]string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	seed, err := fetch.URL(ctx, seedURL, opts.Fetch)
	if err != nil {
		return nil, err
	}

	html := seed.HTML
	text, err := fetch.ExtractMainText(html, fetch.CompanyPageSelectors())
	if err != nil {
		return nil, err
	}

	if fetch.ShouldUseBrowser(text) && opts.UseBrowser {
		rendered, err := fetch.WithBrowser(ctx, seedURL, fetch.DefaultTimeout, opts.Verbose)
		if err != nil {
			log.Printf("browser fallback failed for %s, keeping plain fetch: %v", seedURL, err)
		} else {
			html = rendered
			if renderedText, err := fetch.ExtractMainText(rendered, fetch.CompanyPageSelectors()); err == nil {
				text = renderedText
			}
		}
	}

	snippets := []string{truncate(text, MaxSnippetLength)}

	links, err := fetch.ExtractLinks(html, seedURL, linkMarkers)
	if err != nil {
		log.Printf("link discovery failed for %s: %v", seedURL, err)
		return capCorpus(snippets), nil
	}
	if len(links) > maxPages-1 {
		links = links[:maxPages-1]
	}

	// Each goroutine writes its own slot, keeping snippet order stable.
	extra := make([]string, len(links))
	g, gctx := errgroup.WithContext(ctx)
	for i, link := range links {
		g.Go(func() error {
			result, err := fetch.URL(gctx, link, opts.Fetch)
			if err != nil {
				log.Printf("skipping research page %s: %v", link, err)
				return nil
			}
			pageText, err := fetch.ExtractMainText(result.HTML, fetch.CompanyPageSelectors())
			if err != nil || pageText == "" {
				return nil
			}
			extra[i] = truncate(pageText, MaxSnippetLength)
			return nil
		})
	}
	_ = g.Wait()

	for _, s := range extra {
		if s != "" {
			snippets = append(snippets, s)
		}
	}
	return capCorpus(snippets), nil
}

// FetchJobPosting retrieves a job posting URL and returns the posting text.
func FetchJobPosting(ctx context.Context, url string, opts *fetch.Options) (string, error) {
	result, err := fetch.URL(ctx, url, opts)
	if err != nil {
		return "", err
	}
	return fetch.ExtractMainText(result.HTML, fetch.JobPostingSelectors())
}

// capCorpus trims snippets so their total length stays within
// MaxCorpusLength, dropping later snippets first.
func capCorpus(snippets []string) []string {
	total := 0
	for i, s := range snippets {
		if total+len(s) > MaxCorpusLength {
			remaining := MaxCorpusLength - total
			if remaining > 0 {
				snippets[i] = truncate(s, remaining)
				return snippets[:i+1]
			}
			return snippets[:i]
		}
		total += len(s)
	}
	return snippets
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

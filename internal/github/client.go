// Package github wraps the GitHub read API behind the two fetch
// operations the analyzer needs: one recursive tree listing and raw blob
// content for each file entry. Every request goes through a client-side
// rate limiter; anonymous quota is tight and a burst of blob fetches
// burns through it fast.
package github

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	apperrors "github.com/reposcope/reposcope/internal/errors"
	"github.com/reposcope/reposcope/internal/models"
)

// userAgent identifies this client on every API request.
const userAgent = "reposcope-analyzer"

// fallbackBranch is used when repository metadata is unavailable or
// carries no default-branch field.
const fallbackBranch = "main"

// Options tunes the client; zero values get sensible defaults.
type Options struct {
	Token         string // optional; anonymous access works for public repos
	BaseURL       string // override for tests and GitHub Enterprise
	RatePerSec    float64
	MaxConcurrent int
	MaxFileBytes  int64
}

// Client wraps the GitHub API client with rate limiting and bounded
// fan-out for content fetches.
type Client struct {
	gh            *github.Client
	limiter       *rate.Limiter
	maxConcurrent int
	maxFileBytes  int64
	log           *logrus.Logger
}

// NewClient builds a Client from an http.Client (which carries the
// per-request timeout) and Options.
func NewClient(httpClient *http.Client, opts Options, log *logrus.Logger) (*Client, error) {
	gh := github.NewClient(httpClient)
	if opts.Token != "" {
		gh = gh.WithAuthToken(opts.Token)
	}
	gh.UserAgent = userAgent

	if opts.BaseURL != "" {
		base, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, apperrors.ConfigurationMissing(err, "parse API base URL")
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		gh.BaseURL = base
	}

	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 5
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 8
	}

	return &Client{
		gh:            gh,
		limiter:       rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
		maxConcurrent: opts.MaxConcurrent,
		maxFileBytes:  opts.MaxFileBytes,
		log:           log,
	}, nil
}

// DefaultBranch resolves the repository's default branch from its
// metadata. Metadata failures are recoverable here: the caller still has
// a fair shot at the tree listing on "main", so we warn and fall back
// rather than abort.
func (c *Client) DefaultBranch(ctx context.Context, owner, name string) string {
	if err := c.limiter.Wait(ctx); err != nil {
		return fallbackBranch
	}

	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"repo":  owner + "/" + name,
			"error": err,
		}).Warnf("repository metadata unavailable, assuming branch %q", fallbackBranch)
		return fallbackBranch
	}

	if branch := repo.GetDefaultBranch(); branch != "" {
		return branch
	}
	return fallbackBranch
}

// FetchTree retrieves the full recursive tree listing for a branch in a
// single call. A non-success response aborts this repository's analysis.
func (c *Client) FetchTree(ctx context.Context, owner, name, branch string) ([]models.TreeEntry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUpstreamUnavailable, "rate limiter")
	}

	tree, _, err := c.gh.Git.GetTree(ctx, owner, name, branch, true)
	if err != nil {
		return nil, upstreamError(err, "fetch tree for "+owner+"/"+name+"@"+branch)
	}

	if tree.GetTruncated() {
		c.log.WithField("repo", owner+"/"+name).Warn("tree listing truncated by the API; coverage is partial")
	}

	entries := make([]models.TreeEntry, 0, len(tree.Entries))
	for _, node := range tree.Entries {
		entry := models.TreeEntry{
			Path: node.GetPath(),
			Size: int64(node.GetSize()),
		}
		switch node.GetType() {
		case "blob":
			entry.Kind = models.KindFile
			entry.ContentRef = node.GetSHA()
		case "tree":
			entry.Kind = models.KindDirectory
		default:
			// Submodule commits and the like carry no content.
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// FetchContents retrieves raw blob content for every fetchable file
// entry. Failures are per-file: each one is logged and excluded, and the
// rest of the batch proceeds. Returns the path->text mapping and the
// number of failed fetches.
func (c *Client) FetchContents(ctx context.Context, owner, name string, entries []models.TreeEntry) (map[string]string, int) {
	contents := make(map[string]string, len(entries))
	var mu sync.Mutex
	var failed int

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)

	for _, entry := range entries {
		if entry.Kind != models.KindFile {
			continue
		}
		if entry.ContentRef == "" {
			c.log.WithField("path", entry.Path).Debug("skipping file with no content reference")
			continue
		}
		if c.maxFileBytes > 0 && entry.Size > c.maxFileBytes {
			c.log.WithFields(logrus.Fields{
				"path": entry.Path,
				"size": entry.Size,
			}).Debug("skipping file over size cap")
			continue
		}

		entry := entry
		g.Go(func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			raw, _, err := c.gh.Git.GetBlobRaw(ctx, owner, name, entry.ContentRef)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				c.log.WithFields(logrus.Fields{
					"path":  entry.Path,
					"error": err,
				}).Warn("blob fetch failed, excluding file from analysis")
				return nil
			}
			contents[entry.Path] = string(raw)
			return nil
		})
	}

	// Individual fetches never return errors, so this only waits.
	_ = g.Wait()

	return contents, failed
}

// upstreamError surfaces the HTTP status and response message when the
// API returned a structured error.
func upstreamError(err error, operation string) error {
	var ghErr *github.ErrorResponse
	if stderrors.As(err, &ghErr) && ghErr.Response != nil {
		return apperrors.UpstreamUnavailablef("%s: status %d: %s", operation, ghErr.Response.StatusCode, ghErr.Message)
	}
	return apperrors.Wrap(err, apperrors.KindUpstreamUnavailable, operation)
}

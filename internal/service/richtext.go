package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"log/slog"
	"time"

	"github.com/blogsite/internal/cache"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/sync/singleflight"
)

const (
	richTextCachePrefix = "richtext:"
	richTextCacheTTL    = 24 * time.Hour
)

// RichTextRenderer turns stored post bodies and comments into safe HTML.
// Input may be markdown or editor HTML; raw HTML passes through goldmark and
// is then sanitized.
type RichTextRenderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
	cache  *cache.Client
	group  singleflight.Group
}

// NewRichTextRenderer creates a renderer. c may be nil.
func NewRichTextRenderer(c *cache.Client) *RichTextRenderer {
	return &RichTextRenderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
		),
		policy: bluemonday.UGCPolicy(),
		cache:  c,
	}
}

// Render converts content to sanitized HTML. Concurrent misses for the same
// content share one conversion.
func (r *RichTextRenderer) Render(ctx context.Context, content string) (template.HTML, error) {
	sum := sha256.Sum256([]byte(content))
	key := richTextCachePrefix + hex.EncodeToString(sum[:])

	if cached := r.cache.Get(ctx, key); cached != nil {
		return template.HTML(cached), nil
	}

	out, err, _ := r.group.Do(key, func() (any, error) {
		var buf bytes.Buffer
		if err := r.engine.Convert([]byte(content), &buf); err != nil {
			return nil, err
		}
		safe := r.policy.SanitizeBytes(buf.Bytes())

		r.cache.Set(ctx, key, safe, richTextCacheTTL)
		slog.DebugContext(ctx, "rendered rich text", slog.Int("bytes", len(safe)))
		return safe, nil
	})
	if err != nil {
		return "", err
	}
	return template.HTML(out.([]byte)), nil
}

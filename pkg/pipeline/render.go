package pipeline

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/graph"
	"github.com/matzehuels/sitegraph/pkg/render/nodelink"
)

const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// DefaultPNGScale is the rasterization scale for PNG output.
const DefaultPNGScale = 2.0

// format describes one output format. encode receives the graph and its
// DOT source, which is generated once per Render call.
type format struct {
	contentType string
	encode      func(ctx context.Context, g graph.Graph, dot string) ([]byte, error)
}

var formats = map[string]format{
	FormatSVG: {"image/svg+xml", func(ctx context.Context, _ graph.Graph, dot string) ([]byte, error) {
		return nodelink.RenderSVG(ctx, dot)
	}},
	FormatPNG: {"image/png", func(ctx context.Context, _ graph.Graph, dot string) ([]byte, error) {
		return nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
	}},
	FormatPDF: {"application/pdf", func(ctx context.Context, _ graph.Graph, dot string) ([]byte, error) {
		return nodelink.RenderPDF(ctx, dot)
	}},
	FormatJSON: {"application/json", func(_ context.Context, g graph.Graph, _ string) ([]byte, error) {
		return graph.MarshalGraph(g)
	}},
	FormatDOT: {"text/vnd.graphviz", func(_ context.Context, _ graph.Graph, dot string) ([]byte, error) {
		return []byte(dot), nil
	}},
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	return slices.Sorted(maps.Keys(formats))
}

// ContentType returns the media type served for a format, or "" if the
// format is unknown.
func ContentType(name string) string { return formats[name].contentType }

// ValidateFormat rejects unknown formats with ErrCodeInvalidFormat.
func ValidateFormat(name string) error {
	if _, ok := formats[name]; !ok {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", name, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats returns the first [ValidateFormat] failure.
func ValidateFormats(names []string) error {
	for _, n := range names {
		if err := ValidateFormat(n); err != nil {
			return err
		}
	}
	return nil
}

// Render encodes g in each requested format, SVG when none is given. All
// formats are validated before anything is rendered.
func Render(ctx context.Context, g graph.Graph, names []string, opts nodelink.Options) (map[string][]byte, error) {
	if len(names) == 0 {
		names = []string{FormatSVG}
	}
	if err := ValidateFormats(names); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(g, opts)
	out := make(map[string][]byte, len(names))
	for _, name := range names {
		if _, done := out[name]; done {
			continue
		}
		data, err := formats[name].encode(ctx, g, dot)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}

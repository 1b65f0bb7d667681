package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/streamlens/streamlens/pkg/errors"
	"github.com/streamlens/streamlens/pkg/geom"
	"github.com/streamlens/streamlens/pkg/overlay"
)

// transformOpts holds the command-line flags for the transform command.
type transformOpts struct {
	original string // original image size as "WxH"
	display  string // rendered size as "WxH"
	config   string // optional TOML config file
}

// newTransformCmd creates the transform command. It reads a JSON document
// of labeled vision shapes, rescales each from the original image space
// into the display space, and prints both forms side by side.
//
// The shapes file is a single JSON object mapping labels to shapes of
// unknown provenance; each value is classified structurally as a point,
// polygon, or bounding box. Values that match no shape are skipped with a
// warning.
func newTransformCmd() *cobra.Command {
	opts := transformOpts{}

	cmd := &cobra.Command{
		Use:   "transform [shapes.json]",
		Short: "Rescale vision-model shapes into display coordinates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.original, "original", "", "original image size as WxH (e.g. 1920x1080)")
	cmd.Flags().StringVar(&opts.display, "display", "", "rendered image size as WxH (e.g. 960x540)")
	cmd.Flags().StringVar(&opts.config, "config", "", "TOML config file supplying dimensions")

	return cmd
}

func runTransform(ctx context.Context, path string, opts *transformOpts) error {
	logger := loggerFromContext(ctx)

	original, display, err := resolveDimensions(opts)
	if err != nil {
		return err
	}

	shapes, err := readShapes(path)
	if err != nil {
		return err
	}

	session, err := overlay.New(staticElement{d: display}, overlay.Config{
		OriginalWidth:      original.Width,
		OriginalHeight:     original.Height,
		DisableResizeWatch: true, // fixed display size, nothing to observe
		Logger:             logger,
	})
	if err != nil {
		return err
	}

	ratio, _ := session.ScaleRatio()
	logger.Debug("derived scale ratio", "x", ratio.X, "y", ratio.Y)

	labels := make([]string, 0, len(shapes))
	for label := range shapes {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var rows [][]string
	skipped := 0
	for _, label := range labels {
		row, ok := transformShape(session, label, shapes[label])
		if !ok {
			logger.Warn("unrecognized shape, skipping", "label", label)
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Label", "Kind", "Original", "Display").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return StyleTitle
			}
			return StyleValue
		})
	fmt.Println(t)

	if skipped > 0 {
		printError("%d shape(s) skipped", skipped)
	}
	printSuccess("%d shape(s) mapped %gx%g → %gx%g", len(rows),
		original.Width, original.Height, display.Width, display.Height)
	return nil
}

// resolveDimensions merges the --original/--display flags with the config
// file; flags win.
func resolveDimensions(opts *transformOpts) (original, display geom.Dimensions, err error) {
	var fileCfg *fileConfig
	if opts.config != "" {
		fileCfg, err = loadConfig(opts.config)
		if err != nil {
			return original, display, err
		}
	}

	original, err = pickDimensions(opts.original, dimsFromConfig(fileCfg, true), "original")
	if err != nil {
		return original, display, err
	}
	display, err = pickDimensions(opts.display, dimsFromConfig(fileCfg, false), "display")
	return original, display, err
}

func dimsFromConfig(cfg *fileConfig, original bool) *geom.Dimensions {
	if cfg == nil {
		return nil
	}
	if original {
		return cfg.Transform.Original
	}
	return cfg.Transform.Display
}

func pickDimensions(flag string, fromFile *geom.Dimensions, name string) (geom.Dimensions, error) {
	if flag != "" {
		return parseDimensions(flag)
	}
	if geom.IsValidDimensions(fromFile) {
		return *fromFile, nil
	}
	return geom.Dimensions{}, errors.New(errors.ErrCodeInvalidConfig,
		"%s dimensions required (use --%s WxH or a config file)", name, name)
}

// parseDimensions parses a "WxH" string into positive finite dimensions.
func parseDimensions(s string) (geom.Dimensions, error) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return geom.Dimensions{}, errors.New(errors.ErrCodeInvalidDimensions,
			"expected WxH (e.g. 1920x1080), got %q", s)
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return geom.Dimensions{}, errors.Wrap(errors.ErrCodeInvalidDimensions, err, "invalid width in %q", s)
	}
	height, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return geom.Dimensions{}, errors.Wrap(errors.ErrCodeInvalidDimensions, err, "invalid height in %q", s)
	}
	d := geom.Dimensions{Width: width, Height: height}
	if !geom.IsValidDimensions(&d) {
		return geom.Dimensions{}, errors.New(errors.ErrCodeInvalidDimensions,
			"dimensions must be positive and finite, got %q", s)
	}
	return d, nil
}

// readShapes decodes the labeled-shapes document into raw values for
// structural classification.
func readShapes(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var shapes map[string]any
	if err := json.Unmarshal(data, &shapes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidShape, err, "failed to parse %s", path)
	}
	return shapes, nil
}

// transformShape classifies raw, transforms it through the session, and
// renders a table row. ok is false for unrecognized values.
//
// Bounding boxes are checked before points: a box satisfies the point
// shape too, so order matters.
func transformShape(session *overlay.Session, label string, raw any) (row []string, ok bool) {
	switch {
	case geom.IsBoundingBox(raw):
		box, _ := geom.DecodeBoundingBox(raw)
		return []string{label, "box", formatBox(box), formatBox(session.TransformBoundingBox(box))}, true
	case geom.IsPoint(raw):
		p, _ := geom.DecodePoint(raw)
		return []string{label, "point", formatPoint(p), formatPoint(session.TransformPoint(p))}, true
	case geom.IsPolygon(raw):
		poly, _ := geom.DecodePolygon(raw)
		return []string{label, "polygon", formatPolygon(poly), formatPolygon(session.TransformPolygon(poly))}, true
	default:
		return nil, false
	}
}

func formatPoint(p geom.Point) string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

func formatPolygon(poly geom.Polygon) string {
	parts := make([]string, len(poly))
	for i, p := range poly {
		parts[i] = formatPoint(p)
	}
	return strings.Join(parts, " ")
}

func formatBox(b geom.BoundingBox) string {
	return fmt.Sprintf("(%g, %g) %gx%g", b.X, b.Y, b.Width, b.Height)
}

// staticElement is an overlay.Element with a fixed, already-loaded size,
// standing in for a rendered image in this non-interactive command.
type staticElement struct {
	d geom.Dimensions
}

func (e staticElement) Bounds() (geom.Dimensions, bool) { return e.d, true }
func (e staticElement) Loaded() bool                    { return true }

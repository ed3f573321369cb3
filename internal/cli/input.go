package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/matzehuels/varlayout/pkg/coord"
	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/payload"
	"github.com/matzehuels/varlayout/pkg/pipeline"
	"github.com/matzehuels/varlayout/pkg/source/mongo"
	"github.com/matzehuels/varlayout/pkg/variant"
)

// inputFlags selects the payload and the view shared by layout, modes and view.
type inputFlags struct {
	region     string
	width      float64
	ppb        float64
	geneModel  string
	genomic    bool
	codingOnly bool
	highlight  []string
	mode       string

	mongoDataset string
	mongoURI     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.region, "region", "r", "", "view region chr:start-stop (default: gene model or payload extent)")
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "view width in pixels")
	fs.Float64Var(&f.ppb, "ppb", 0, "pixels per base (default: width / region length)")
	fs.StringVar(&f.geneModel, "gene-model", "", "gene model JSON file for a gene or protein view")
	fs.BoolVar(&f.genomic, "genomic", false, "genomic display of a gene model (no amino-acid merging)")
	fs.BoolVar(&f.codingOnly, "coding-only", false, "drop point mutations outside the coding region")
	fs.StringSliceVar(&f.highlight, "highlight", nil, "ssm ids to keep expanded (comma-separated)")
	fs.StringVar(&f.mode, "mode", "", "preferred view mode: categorical or numeric:<attribute>")
	fs.StringVar(&f.mongoDataset, "mongo-dataset", "", "load the payload from this MongoDB dataset")
	fs.StringVar(&f.mongoURI, "mongo-uri", "", "MongoDB URI (default: from config)")
}

// applyConfig fills flags the user did not set from the config file.
func (f *inputFlags) applyConfig(cmd *cobra.Command, c *CLI) {
	fs := cmd.Flags()
	v := c.cfg.View
	if !fs.Changed("width") && v.Width > 0 {
		f.width = v.Width
	}
	if !fs.Changed("ppb") && v.PixelsPerBase > 0 {
		f.ppb = v.PixelsPerBase
	}
	if !fs.Changed("mode") {
		f.mode = v.Mode
	}
	if !fs.Changed("genomic") {
		f.genomic = v.GenomicDisplay
	}
	if !fs.Changed("coding-only") {
		f.codingOnly = v.CodingOnly
	}
	if !fs.Changed("mongo-uri") {
		f.mongoURI = c.cfg.Mongo.URI
	}
}

// checkArgs requires exactly one of a payload file and --mongo-dataset.
func (f *inputFlags) checkArgs(args []string) error {
	switch {
	case len(args) == 0 && f.mongoDataset == "":
		return errors.New(errors.ErrCodeInvalidInput, "a payload file or --mongo-dataset is required")
	case len(args) > 0 && f.mongoDataset != "":
		return errors.New(errors.ErrCodeInvalidInput, "a payload file and --mongo-dataset are mutually exclusive")
	}
	return nil
}

// loadPayload reads the payload file ("-" for stdin), or queries MongoDB for
// the dataset.
func (c *CLI) loadPayload(ctx context.Context, f *inputFlags, input string) (*payload.Payload, error) {
	switch {
	case input == "-":
		return payload.Read(os.Stdin)
	case f.mongoDataset == "":
		return payload.ReadFile(input)
	}

	mcfg, _ := c.cfg.MongoConfig()
	mcfg.URI = f.mongoURI
	mcfg.Logger = c.Logger
	src, err := mongo.Open(ctx, mcfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := src.Close(context.Background()); err != nil {
			c.Logger.Warn("close mongo", "err", err)
		}
	}()

	q := mongo.Query{Dataset: f.mongoDataset}
	if f.region != "" {
		r, err := parseRegion(f.region)
		if err != nil {
			return nil, err
		}
		q.Chr, q.Start, q.Stop = r.Chr, r.Start, r.Stop
	}
	return src.Load(ctx, q)
}

// viewSpec builds the view: the --region flag, else the gene model span,
// else the extent of the payload's first chromosome.
func (f *inputFlags) viewSpec(p *payload.Payload) (pipeline.ViewSpec, error) {
	spec := pipeline.ViewSpec{
		Width:          f.width,
		GenomicDisplay: f.genomic,
		CodingOnly:     f.codingOnly,
	}
	if f.geneModel != "" {
		gm, err := readGeneModel(f.geneModel)
		if err != nil {
			return spec, err
		}
		spec.GeneModel = gm
	}

	var (
		r   coord.Region
		err error
	)
	switch {
	case f.region != "":
		r, err = parseRegion(f.region)
	case spec.GeneModel != nil:
		r = coord.Region{Chr: spec.GeneModel.Chr, Start: spec.GeneModel.Start, Stop: spec.GeneModel.Stop}
	default:
		var ok bool
		r, ok = payloadExtent(p)
		if !ok {
			err = errors.New(errors.ErrCodeInvalidInput, "cannot infer a region from the payload; pass --region")
		}
	}
	if err != nil {
		return spec, err
	}

	spec.Regions = coord.Single(r.Chr, r.Start, r.Stop, f.width)
	if f.ppb > 0 {
		spec.Regions[0].PixelsPerBase = f.ppb
		spec.PixelsPerBase = f.ppb
	}
	return spec, nil
}

// parseRegion parses "chr:start-stop". Thousands separators are allowed.
func parseRegion(s string) (coord.Region, error) {
	bad := errors.New(errors.ErrCodeInvalidInput, "invalid region %q (want chr:start-stop)", s)
	chr, span, ok := strings.Cut(s, ":")
	if !ok {
		return coord.Region{}, bad
	}
	if err := errors.ValidateChromosome(chr); err != nil {
		return coord.Region{}, err
	}
	startStr, stopStr, ok := strings.Cut(strings.ReplaceAll(span, ",", ""), "-")
	if !ok {
		return coord.Region{}, bad
	}
	start, err1 := strconv.Atoi(startStr)
	stop, err2 := strconv.Atoi(stopStr)
	if err1 != nil || err2 != nil || start < 0 || stop < start {
		return coord.Region{}, bad
	}
	return coord.Region{Chr: chr, Start: start, Stop: stop}, nil
}

// payloadExtent spans the valid positions on the first chromosome of p.
func payloadExtent(p *payload.Payload) (coord.Region, bool) {
	var (
		r     coord.Region
		found bool
	)
	for _, rec := range p.Records {
		pos, ok := rec.Position()
		if !ok || rec.Chr == "" {
			continue
		}
		if !found {
			r = coord.Region{Chr: rec.Chr, Start: pos, Stop: pos}
			found = true
			continue
		}
		if rec.Chr != r.Chr {
			continue
		}
		r.Start = min(r.Start, pos)
		r.Stop = max(r.Stop, pos)
	}
	return r, found
}

func readGeneModel(path string) (*variant.GeneModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "gene model %s", path)
		}
		return nil, fmt.Errorf("read gene model: %w", err)
	}
	var gm variant.GeneModel
	if err := json.Unmarshal(data, &gm); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode gene model %s", path)
	}
	if gm.Chr == "" || gm.Stop < gm.Start {
		return nil, errors.New(errors.ErrCodeInvalidInput, "gene model %s needs chr and start <= stop", path)
	}
	return &gm, nil
}

// defaultOutput returns <input>.layout.json, or <dataset>.layout.json.
// Stdin input writes payload.layout.json.
func defaultOutput(input, dataset string) string {
	switch input {
	case "":
		return dataset + layoutSuffix
	case "-":
		return "payload" + layoutSuffix
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + layoutSuffix
}

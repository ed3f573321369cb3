// Package mongo loads variant payloads from MongoDB.
//
// Records live in one collection, one document per variant, using the same
// field names as the JSON payload (ssm_id, chr, pos, dt, class, mname,
// occurrence, pairlst, ...) plus a "dataset" field. Dataset-declared view
// modes live in a second collection keyed by dataset name:
//
//	{"name": "pancan", "modes": [{"type": "numeric", "by_attribute": "vaf", "label": "VAF"}]}
//
// The source only fetches; it never runs layout code. Loading finishes
// before a refresh starts.
package mongo

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/observability"
	"github.com/matzehuels/varlayout/pkg/payload"
	"github.com/matzehuels/varlayout/pkg/track/viewmode"
	"github.com/matzehuels/varlayout/pkg/variant"
)

const (
	// DefaultDatabase is the database used when Config.Database is empty.
	DefaultDatabase = "varlayout"

	// DefaultCollection holds variant records.
	DefaultCollection = "variants"

	// DefaultDatasetCollection holds dataset metadata.
	DefaultDatasetCollection = "datasets"

	// DefaultTimeout bounds connecting and each load.
	DefaultTimeout = 10 * time.Second

	// DefaultLimit caps the records returned by one load.
	DefaultLimit = 100000
)

// Config configures a Source.
type Config struct {
	URI               string
	Database          string
	Collection        string
	DatasetCollection string
	Timeout           time.Duration
	Logger            *log.Logger
}

func (c *Config) setDefaults() error {
	if err := errors.ValidateMongoURI(c.URI); err != nil {
		return err
	}
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	if c.Collection == "" {
		c.Collection = DefaultCollection
	}
	if c.DatasetCollection == "" {
		c.DatasetCollection = DefaultDatasetCollection
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Source reads payloads from MongoDB. It is safe for concurrent use.
type Source struct {
	client   *mongo.Client
	records  *mongo.Collection
	datasets *mongo.Collection
	timeout  time.Duration
	logger   *log.Logger
}

// Open connects to MongoDB and pings the server.
func Open(ctx context.Context, cfg Config) (*Source, error) {
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	db := client.Database(cfg.Database)
	cfg.Logger.Debug("connected to mongodb", "database", cfg.Database, "collection", cfg.Collection)
	return &Source{
		client:   client,
		records:  db.Collection(cfg.Collection),
		datasets: db.Collection(cfg.DatasetCollection),
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}, nil
}

// Close disconnects from the server.
func (s *Source) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Query selects the records of one view.
type Query struct {
	Dataset string `json:"dataset"`
	Chr     string `json:"chr,omitempty"`

	// Start and Stop bound the position, inclusive. Zero values leave the
	// bound open.
	Start int `json:"start,omitempty"`
	Stop  int `json:"stop,omitempty"`

	// DataTypes restricts the result. Empty means all types.
	DataTypes []variant.DataType `json:"dt,omitempty"`

	Limit int64 `json:"limit,omitempty"`
}

// Validate checks that q selects something sensible.
func (q Query) Validate() error {
	if q.Dataset == "" {
		return errors.New(errors.ErrCodeInvalidInput, "dataset is required")
	}
	if q.Chr != "" {
		if err := errors.ValidateChromosome(q.Chr); err != nil {
			return err
		}
	}
	if q.Start > 0 && q.Stop > 0 && q.Stop < q.Start {
		return errors.New(errors.ErrCodeInvalidInput, "stop %d is before start %d", q.Stop, q.Start)
	}
	for _, dt := range q.DataTypes {
		if !dt.Valid() {
			return errors.New(errors.ErrCodeInvalidInput, "unknown data type %s", dt)
		}
	}
	return nil
}

// Filter returns the MongoDB filter document for q.
func (q Query) Filter() bson.D {
	f := bson.D{{Key: "dataset", Value: q.Dataset}}
	if q.Chr != "" {
		f = append(f, bson.E{Key: "chr", Value: q.Chr})
	}
	var pos bson.D
	if q.Start > 0 {
		pos = append(pos, bson.E{Key: "$gte", Value: q.Start})
	}
	if q.Stop > 0 {
		pos = append(pos, bson.E{Key: "$lte", Value: q.Stop})
	}
	if len(pos) > 0 {
		f = append(f, bson.E{Key: "pos", Value: pos})
	}
	if len(q.DataTypes) > 0 {
		codes := make(bson.A, len(q.DataTypes))
		for i, dt := range q.DataTypes {
			codes[i] = int(dt)
		}
		f = append(f, bson.E{Key: "dt", Value: bson.D{{Key: "$in", Value: codes}}})
	}
	return f
}

// Load fetches the records matching q and the dataset's declared modes.
func (s *Source) Load(ctx context.Context, q Query) (p *payload.Payload, err error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	hooks := observability.Source()
	hooks.OnLoadStart(ctx, "mongo", q.Dataset)
	start := time.Now()
	defer func() {
		hooks.OnLoadComplete(ctx, "mongo", q.Dataset, p.Len(), time.Since(start), err)
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "chr", Value: 1}, {Key: "pos", Value: 1}}).
		SetLimit(limit)
	cur, err := s.records.Find(ctx, q.Filter(), opts)
	if err != nil {
		return nil, wrapErr(err, "find records in %s", q.Dataset)
	}
	var records []*variant.Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, wrapErr(err, "decode records in %s", q.Dataset)
	}

	modes, err := s.modes(ctx, q.Dataset)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("loaded payload", "dataset", q.Dataset, "records", len(records), "modes", len(modes))
	return &payload.Payload{Dataset: q.Dataset, Records: records, Modes: modes}, nil
}

type modeDoc struct {
	Type        string `bson:"type"`
	ByAttribute string `bson:"by_attribute"`
	Label       string `bson:"label"`
}

type datasetDoc struct {
	Name  string    `bson:"name"`
	Modes []modeDoc `bson:"modes"`
}

func (s *Source) modes(ctx context.Context, dataset string) ([]viewmode.Mode, error) {
	var doc datasetDoc
	err := s.datasets.FindOne(ctx, bson.D{{Key: "name", Value: dataset}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(err, "load dataset %s", dataset)
	}
	return decodeModes(doc.Modes, s.logger), nil
}

// decodeModes skips entries it cannot read.
func decodeModes(docs []modeDoc, logger *log.Logger) []viewmode.Mode {
	var modes []viewmode.Mode
	for _, d := range docs {
		var kind viewmode.Kind
		if err := kind.UnmarshalText([]byte(d.Type)); err != nil {
			logger.Warn("skipping dataset view mode", "type", d.Type, "err", err)
			continue
		}
		if kind == viewmode.Numeric && d.ByAttribute == "" {
			logger.Warn("skipping numeric view mode without attribute", "label", d.Label)
			continue
		}
		modes = append(modes, viewmode.Mode{Kind: kind, ByAttribute: d.ByAttribute, Label: d.Label})
	}
	return modes
}

func wrapErr(err error, format string, args ...any) error {
	if mongo.IsTimeout(err) {
		return errors.Wrap(errors.ErrCodeTimeout, err, format, args...)
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, format, args...)
}

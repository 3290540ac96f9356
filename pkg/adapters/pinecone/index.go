// Package pinecone implements ports.SimilarityIndex on a Pinecone serverless
// index through the official Go SDK. The control plane (list, create,
// describe) is REST; upserts and queries go over the SDK's gRPC connection.
package pinecone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/punchline/internal/apiclient"
	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/ports"
	sdk "github.com/pinecone-io/go-pinecone/pinecone"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	DefaultControlURL = "https://api.pinecone.io"
	DefaultDimension  = 1024
	DefaultCloud      = "aws"
	DefaultRegion     = "us-east-1"
)

// ErrNotReady is returned when a freshly created index never becomes ready.
var ErrNotReady = errors.New("pinecone index not ready")

// dataPlane is the part of *sdk.IndexConnection the index uses.
type dataPlane interface {
	UpsertVectors(ctx context.Context, in []*sdk.Vector) (uint32, error)
	QueryByVectorValues(ctx context.Context, in *sdk.QueryByVectorValuesRequest) (*sdk.QueryVectorsResponse, error)
	Close() error
}

type options struct {
	controlURL string
	dimension  int
	cloud      string
	region     string
	poll       time.Duration
	readyWait  time.Duration
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	logger     *slog.Logger
	dial       func(host string) (dataPlane, error)
}

// Option configures Open.
type Option func(*options)

// WithControlURL overrides the control plane root.
func WithControlURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.controlURL = strings.TrimRight(url, "/")
		}
	}
}

// WithDimension sets the dimension used when creating the index.
func WithDimension(dim int) Option {
	return func(o *options) {
		if dim > 0 {
			o.dimension = dim
		}
	}
}

// WithServerless sets the cloud and region used when creating the index.
func WithServerless(cloud, region string) Option {
	return func(o *options) {
		if cloud != "" {
			o.cloud = cloud
		}
		if region != "" {
			o.region = region
		}
	}
}

// WithReadyPolling sets how often and how long Open waits for a new index.
func WithReadyPolling(interval, timeout time.Duration) Option {
	return func(o *options) {
		o.poll = interval
		o.readyWait = timeout
	}
}

// WithHTTPClient sets the client used for control plane calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithRetries retries rate-limited and unavailable responses n times on both planes.
func WithRetries(n int, backoff time.Duration) Option {
	return func(o *options) {
		o.retries = n
		o.backoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Index is a handle on one Pinecone index.
type Index struct {
	conn    dataPlane
	name    string
	host    string
	retries int
	backoff time.Duration
	logger  *slog.Logger
}

// Open resolves the index to use: the first existing index whose name starts
// with namePrefix, or a new serverless cosine index named namePrefix once it is ready.
func Open(ctx context.Context, apiKey, namePrefix string, opts ...Option) (*Index, error) {
	o := options{
		controlURL: DefaultControlURL,
		dimension:  DefaultDimension,
		cloud:      DefaultCloud,
		region:     DefaultRegion,
		poll:       time.Second,
		readyWait:  2 * time.Minute,
		backoff:    time.Second,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if namePrefix == "" {
		return nil, fmt.Errorf("pinecone: index name is required")
	}

	rest := http.Client{Timeout: apiclient.DefaultTimeout}
	if o.httpClient != nil {
		rest = *o.httpClient
	}
	rest.Transport = &apiclient.Transport{Base: rest.Transport, Retries: o.retries, Backoff: o.backoff, Logger: o.logger}

	client, err := sdk.NewClient(sdk.NewClientParams{
		ApiKey:     apiKey,
		Host:       o.controlURL,
		RestClient: &rest,
	})
	if err != nil {
		return nil, fmt.Errorf("pinecone client: %w", err)
	}

	dial := o.dial
	if dial == nil {
		dial = func(host string) (dataPlane, error) {
			conn, err := client.Index(sdk.NewIndexConnParams{Host: host})
			if err != nil {
				return nil, err
			}
			return conn, nil
		}
	}

	model, err := findOrCreate(ctx, client, namePrefix, o)
	if err != nil {
		return nil, err
	}

	conn, err := dial(model.Host)
	if err != nil {
		return nil, fmt.Errorf("connect to index %s: %w", model.Name, err)
	}
	return &Index{
		conn:    conn,
		name:    model.Name,
		host:    model.Host,
		retries: o.retries,
		backoff: o.backoff,
		logger:  o.logger,
	}, nil
}

func findOrCreate(ctx context.Context, client *sdk.Client, namePrefix string, o options) (*sdk.Index, error) {
	list, err := client.ListIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	for _, idx := range list {
		if idx != nil && strings.HasPrefix(idx.Name, namePrefix) {
			o.logger.Info("Using existing Pinecone index", "index", idx.Name)
			return idx, nil
		}
	}

	o.logger.Info("Creating new Pinecone index", "index", namePrefix, "dimension", o.dimension)
	_, err = client.CreateServerlessIndex(ctx, &sdk.CreateServerlessIndexRequest{
		Name:      namePrefix,
		Dimension: int32(o.dimension),
		Metric:    sdk.Cosine,
		Cloud:     sdk.Cloud(o.cloud),
		Region:    o.region,
	})
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	model, err := waitReady(ctx, client, namePrefix, o.poll, o.readyWait)
	if err != nil {
		return nil, err
	}
	o.logger.Info("Created Pinecone index", "index", model.Name)
	return model, nil
}

func waitReady(ctx context.Context, client *sdk.Client, name string, poll, limit time.Duration) (*sdk.Index, error) {
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		model, err := client.DescribeIndex(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrNotReady, ctx.Err())
			}
			return nil, fmt.Errorf("describe index: %w", err)
		}
		if model.Status != nil && model.Status.Ready {
			return model, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrNotReady, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Name returns the resolved index name.
func (i *Index) Name() string {
	return i.name
}

// Host returns the data plane host of the index.
func (i *Index) Host() string {
	return i.host
}

// Close releases the data plane connection.
func (i *Index) Close() error {
	return i.conn.Close()
}

// Upsert writes one vector with its metadata.
func (i *Index) Upsert(ctx context.Context, id string, values domain.Vector, metadata map[string]string) error {
	md, err := toMetadata(metadata)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	vec := &sdk.Vector{Id: id, Values: []float32(values), Metadata: md}

	err = i.retry(ctx, func() error {
		_, err := i.conn.UpsertVectors(ctx, []*sdk.Vector{vec})
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// QueryNearest asks for the top-1 match including metadata.
func (i *Index) QueryNearest(ctx context.Context, values domain.Vector) (*ports.Match, error) {
	req := &sdk.QueryByVectorValuesRequest{Vector: []float32(values), TopK: 1, IncludeMetadata: true}

	var resp *sdk.QueryVectorsResponse
	err := i.retry(ctx, func() error {
		var err error
		resp, err = i.conn.QueryByVectorValues(ctx, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if resp == nil || len(resp.Matches) == 0 || resp.Matches[0] == nil || resp.Matches[0].Vector == nil {
		return nil, nil
	}

	best := resp.Matches[0]
	return &ports.Match{ID: best.Vector.Id, Score: float64(best.Score), Metadata: fromMetadata(best.Vector.Metadata)}, nil
}

func (i *Index) retry(ctx context.Context, op func() error) error {
	return apiclient.Retry(ctx, apiclient.NewBackOff(i.retries, i.backoff), retryableRPC, i.logger, op)
}

// retryableRPC matches the gRPC codes Pinecone uses for throttling and outages.
func retryableRPC(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted:
		return true
	}
	return false
}

func toMetadata(m map[string]string) (*sdk.Metadata, error) {
	if len(m) == 0 {
		return nil, nil
	}
	fields := make(map[string]any, len(m))
	for k, v := range m {
		fields[k] = v
	}
	return structpb.NewStruct(fields)
}

// fromMetadata flattens metadata values to strings; numbers print without a trailing ".0".
func fromMetadata(md *sdk.Metadata) map[string]string {
	out := make(map[string]string, len(md.GetFields()))
	for k, v := range md.GetFields() {
		if s, ok := v.GetKind().(*structpb.Value_StringValue); ok {
			out[k] = s.StringValue
			continue
		}
		out[k] = fmt.Sprint(v.AsInterface())
	}
	return out
}

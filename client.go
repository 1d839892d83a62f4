package postmark

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lattiq/postmark/internal/core"
	"github.com/lattiq/postmark/internal/rest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Type aliases to re-export core types for the public API.
// This allows users to access types like postmark.TemplateMessage instead of
// core.TemplateMessage, maintaining a clean public interface while keeping
// implementation details internal.
type (
	TemplateMessage = core.TemplateMessage
	TemplateBatch   = core.TemplateBatch
	MessageStream   = core.MessageStream
	Record          = core.Record
	RecordSet       = core.RecordSet
	BatchResult     = core.BatchResult
	GroupFailure    = core.GroupFailure
	ValidationError = core.ValidationError
	APIError        = core.APIError
	DecodeError     = core.DecodeError
)

// Message stream constants
const (
	StreamOutbound  = core.StreamOutbound
	StreamBroadcast = core.StreamBroadcast
)

// API limits
const (
	MaxRecipients = core.MaxRecipients
	MaxTagLength  = core.MaxTagLength

	// PageSize is the largest window the list endpoints return per request.
	PageSize = rest.PageSize

	// BatchGroupSize is the most messages sent per batch request.
	BatchGroupSize = rest.GroupSize
)

// Error constructor functions
var (
	NewValidationError          = core.NewValidationError
	NewValidationErrorWithValue = core.NewValidationErrorWithValue
	NewAPIError                 = core.NewAPIError
)

// API endpoint paths.
const (
	emailWithTemplatePath       = "/email/withTemplate/"
	emailBatchWithTemplatesPath = "/email/batchWithTemplates/"
	templatesPath               = "/templates"
	outboundMessagesPath        = "/messages/outbound"
)

// Prometheus metrics for Postmark client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postmark_requests_total",
		Help: "Total Postmark API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "postmark_request_duration_seconds",
		Help:    "Postmark API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postmark_errors_total",
		Help: "Total Postmark API errors by class",
	}, []string{"class"})
)

// Client talks to the Postmark transactional-email API. Every call is
// independent and stateless; the only shared resource is the server token
// held by the configuration. All methods are safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	tracer     trace.Tracer
	logger     zerolog.Logger
}

var _ Interface = (*Client)(nil)

// New creates a new Postmark client with the given configuration.
func New(config Config, opts ...Option) (*Client, error) {
	// Apply functional options
	for _, opt := range opts {
		opt(&config)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		tracer:     otel.Tracer("github.com/lattiq/postmark"),
		logger:     config.Logger.With().Str("component", "postmark-client").Logger(),
	}, nil
}

// SendTemplate sends one email populated from a server-side template.
// The result contains one row with the API's submission receipt.
func (c *Client) SendTemplate(ctx context.Context, msg *TemplateMessage) (*RecordSet, error) {
	ctx, span := c.tracer.Start(ctx, "postmark.Client.SendTemplate")
	defer span.End()

	if err := msg.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("postmark.from", msg.From),
		attribute.Int("postmark.recipients", len(msg.To)),
		attribute.String("postmark.template_alias", msg.TemplateAlias),
		attribute.Int64("postmark.template_id", msg.TemplateID),
	)

	req, err := rest.NewRequest(http.MethodPost, emailWithTemplatePath, c.config.ServerToken, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request build failed")
		return nil, err
	}
	if err := req.EncodeBody(msg.Payload()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request encode failed")
		return nil, err
	}

	rows, err := c.do(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "email sent")
	return rows, nil
}

// SendTemplateBatch sends one templated email per recipient, partitioned
// into groups of at most BatchGroupSize and dispatched sequentially.
//
// Dispatch continues on error: a group that fails, whether from a transport
// error or a non-2xx status, is recorded in the result's Failed list and
// later groups are still attempted. The returned error is non-nil only for
// caller input problems or a cancelled context, never for per-group
// failures.
func (c *Client) SendTemplateBatch(ctx context.Context, batch *TemplateBatch) (*BatchResult, error) {
	ctx, span := c.tracer.Start(ctx, "postmark.Client.SendTemplateBatch")
	defer span.End()

	if err := batch.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	messages := batch.Expand()
	groups := rest.ChunkMessages(messages, rest.GroupSize)

	span.SetAttributes(
		attribute.Int("postmark.batch.messages", len(messages)),
		attribute.Int("postmark.batch.groups", len(groups)),
	)

	result := &BatchResult{
		Messages: len(messages),
		Groups:   len(groups),
		Rows:     core.NewRecordSet(),
	}

	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "context cancelled")
			return result, err
		}

		rows, err := c.sendGroup(ctx, group)
		if err != nil {
			c.logger.Warn().
				Err(err).
				Int("group", i).
				Int("messages", len(group)).
				Msg("batch group failed")
			result.Failed = append(result.Failed, GroupFailure{
				Group:    i,
				Messages: len(group),
				Err:      err,
			})
			continue
		}
		result.Rows.Append(rows)
	}

	span.SetAttributes(
		attribute.Int("postmark.batch.sent", result.Sent()),
		attribute.Int("postmark.batch.failed_groups", len(result.Failed)),
	)
	span.SetStatus(codes.Ok, "batch dispatched")

	return result, nil
}

// sendGroup dispatches one batch group to the batch send endpoint.
func (c *Client) sendGroup(ctx context.Context, group []core.TemplatedEmail) (*RecordSet, error) {
	req, err := rest.NewRequest(http.MethodPost, emailBatchWithTemplatesPath, c.config.ServerToken, nil)
	if err != nil {
		return nil, err
	}
	if err := req.EncodeBody(core.BatchPayload{Messages: group}); err != nil {
		return nil, err
	}
	return c.do(ctx, req)
}

// ListTemplatesOptions controls a template listing.
type ListTemplatesOptions struct {
	// Count is the total number of templates to fetch. Zero means one full
	// page (PageSize). Fetches beyond PageSize are split into sequential
	// offset/count windows.
	Count int

	// Type optionally filters by template type, "standard" or "layout"
	// (case-insensitive; the API expects title case).
	Type string
}

// ListTemplates fetches the server's templates as one row per template.
func (c *Client) ListTemplates(ctx context.Context, opts ListTemplatesOptions) (*RecordSet, error) {
	ctx, span := c.tracer.Start(ctx, "postmark.Client.ListTemplates")
	defer span.End()

	if opts.Count < 0 {
		err := core.NewValidationErrorWithValue("count", "must be non-negative", opts.Count)
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	templateType, err := normalizeTemplateType(opts.Type)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	count := opts.Count
	if count == 0 {
		count = rest.PageSize
	}

	span.SetAttributes(
		attribute.Int("postmark.count", count),
		attribute.String("postmark.template_type", templateType),
	)

	extra := url.Values{}
	if templateType != "" {
		extra.Set("type", templateType)
	}

	rows, err := c.fetchPaged(ctx, templatesPath, count, extra)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "templates listed")
	return rows, nil
}

// OutboundMessagesOptions controls an outbound message log fetch. All filter
// fields are optional and passed through as query parameters.
type OutboundMessagesOptions struct {
	// Count is the total number of log entries to fetch. Zero means one
	// full page (PageSize).
	Count int

	// Recipient filters by recipient address.
	Recipient string

	// FromEmail filters by sender address.
	FromEmail string

	// Tag filters by message tag.
	Tag string

	// Status filters by delivery status, e.g. "sent" or "queued".
	Status string

	// Subject filters by subject line.
	Subject string

	// MessageStream filters by message stream.
	MessageStream string

	// FromDate and ToDate bound the search window, formatted YYYY-MM-DD.
	FromDate string
	ToDate   string

	// Metadata filters on message metadata; each entry becomes a
	// metadata_<name> query parameter.
	Metadata map[string]string
}

// ListOutboundMessages fetches the outbound message log as one row per entry.
func (c *Client) ListOutboundMessages(ctx context.Context, opts OutboundMessagesOptions) (*RecordSet, error) {
	ctx, span := c.tracer.Start(ctx, "postmark.Client.ListOutboundMessages")
	defer span.End()

	if opts.Count < 0 {
		err := core.NewValidationErrorWithValue("count", "must be non-negative", opts.Count)
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	count := opts.Count
	if count == 0 {
		count = rest.PageSize
	}

	span.SetAttributes(attribute.Int("postmark.count", count))

	extra := url.Values{}
	setIfPresent := func(key, value string) {
		if value != "" {
			extra.Set(key, value)
		}
	}
	setIfPresent("recipient", opts.Recipient)
	setIfPresent("fromemail", opts.FromEmail)
	setIfPresent("tag", opts.Tag)
	setIfPresent("status", opts.Status)
	setIfPresent("subject", opts.Subject)
	setIfPresent("messagestream", opts.MessageStream)
	setIfPresent("fromdate", opts.FromDate)
	setIfPresent("todate", opts.ToDate)
	for name, value := range opts.Metadata {
		extra.Set("metadata_"+name, value)
	}

	rows, err := c.fetchPaged(ctx, outboundMessagesPath, count, extra)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "messages listed")
	return rows, nil
}

// fetchPaged drives sequential offset/count GETs against a list endpoint and
// concatenates the decoded pages in request order. Unlike batch sends, a
// failed page aborts the fetch: a partial listing has no per-row error
// marker the caller could observe.
func (c *Client) fetchPaged(ctx context.Context, path string, total int, extra url.Values) (*RecordSet, error) {
	pages, err := rest.PlanPages(total)
	if err != nil {
		return nil, core.NewValidationErrorWithValue("count", "must be non-negative", total)
	}

	out := core.NewRecordSet()
	for _, page := range pages {
		query := url.Values{}
		for k, vs := range extra {
			for _, v := range vs {
				query.Add(k, v)
			}
		}
		query.Set("count", strconv.Itoa(page.Count))
		query.Set("offset", strconv.Itoa(page.Offset))

		req, err := rest.NewRequest(http.MethodGet, path, c.config.ServerToken, query)
		if err != nil {
			return nil, err
		}

		rows, err := c.do(ctx, req)
		if err != nil {
			return nil, err
		}
		out.Append(rows)

		// The server ran out of rows before the requested total.
		if rows.Len() < page.Count {
			break
		}
	}
	return out, nil
}

// do materializes a request descriptor, executes it, and normalizes the
// response. This is the single point where the client performs I/O.
func (c *Client) do(ctx context.Context, req *rest.Request) (*RecordSet, error) {
	httpReq, err := req.HTTPRequest(ctx, c.config.BaseURL)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", c.config.UserAgent)

	endpoint := req.Path
	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Msg("executing Postmark request")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		errorsTotal.WithLabelValues("network").Inc()
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Postmark request failed")
		return nil, err
	}
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	rows, err := rest.Normalize(resp, endpoint)
	if err != nil {
		switch err.(type) {
		case *APIError:
			errorsTotal.WithLabelValues("api").Inc()
			c.logger.Warn().
				Err(err).
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Msg("Postmark API error")
		case *DecodeError:
			errorsTotal.WithLabelValues("decode").Inc()
			c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("Postmark response decode failed")
		}
		return nil, err
	}

	return rows, nil
}

// normalizeTemplateType maps a case-insensitive template type filter onto
// the title-cased value the API expects.
func normalizeTemplateType(t string) (string, error) {
	switch strings.ToLower(t) {
	case "":
		return "", nil
	case "standard":
		return "Standard", nil
	case "layout":
		return "Layout", nil
	default:
		return "", core.NewValidationErrorWithValue(
			"type", `must be one of "standard" or "layout"`, t)
	}
}

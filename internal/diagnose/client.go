// ABOUTME: Diagnosis client: builds the tools/call request, runs transports in order
// ABOUTME: Streaming first with one polling fallback; all failures become Results

package diagnose

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/planthaus/cropdoc/internal/httputil"
	"github.com/planthaus/cropdoc/internal/imaging"
	"github.com/planthaus/cropdoc/internal/rpc"
	"github.com/planthaus/cropdoc/internal/sse"
	"github.com/planthaus/cropdoc/internal/trace"
)

const (
	// DefaultTimeout is the shared budget for one diagnosis, covering
	// whichever transports end up being attempted.
	DefaultTimeout = 45 * time.Second

	// DefaultToolName is the remote tool invoked for plant diagnosis.
	DefaultToolName = "diagnose_plant_health"
)

// Client calls the remote plant-health tool and normalizes whatever comes
// back. Each Diagnose call owns its request id, deadline, and buffers, so
// concurrent calls on one Client do not interfere.
type Client struct {
	endpoint   string
	toolName   string
	timeout    time.Duration
	httpClient *http.Client
	bus        *trace.Bus

	transports []textTransport
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default tuned HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout overrides the shared timeout budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithToolName overrides the remote tool name.
func WithToolName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.toolName = name
		}
	}
}

// WithTrace attaches a bus that receives stage events from the pipeline.
func WithTrace(bus *trace.Bus) Option {
	return func(c *Client) { c.bus = bus }
}

// New creates a Client for the given tool endpoint URL.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		toolName:   DefaultToolName,
		timeout:    DefaultTimeout,
		httpClient: httputil.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.transports = []textTransport{
		&streamingTransport{client: c.httpClient},
		&pollingTransport{client: c.httpClient},
	}
	return c
}

// Diagnose sends the image to the remote tool and returns a normalized
// Result. It never returns an error: every transport or parse failure is
// folded into a failed Result with its ErrorKind.
func (c *Client) Diagnose(ctx context.Context, imageBase64, cropHint string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := rpc.Request{
		JSONRPC: rpc.Version,
		ID:      time.Now().UnixMilli(),
		Method:  rpc.MethodToolsCall,
		Params: rpc.Params{
			Name: c.toolName,
			Arguments: rpc.Arguments{
				Image: imaging.EnsureDataURL(imageBase64),
				Crop:  cropHint,
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return failure(fmt.Errorf("marshaling request: %w", err))
	}
	c.bus.Publish(trace.Event{
		Component: "client", Stage: trace.StageRequest, Outcome: trace.OutcomeOK,
		Detail: fmt.Sprintf("id=%d tool=%s", req.ID, c.toolName),
	})

	text, err := c.fetch(ctx, body)
	if err != nil {
		return failure(err)
	}

	payload := sse.ExtractPayload(text)
	c.bus.Publish(trace.Event{Component: "extractor", Stage: trace.StageExtract, Outcome: trace.OutcomeOK})

	env, err := rpc.ParseEnvelope(payload, text)
	if err != nil {
		c.bus.Publish(trace.Event{Component: "parser", Stage: trace.StageParse, Outcome: trace.OutcomeFailed, Err: err})
		return failure(err)
	}
	c.bus.Publish(trace.Event{Component: "parser", Stage: trace.StageParse, Outcome: trace.OutcomeOK})

	res := normalize(env)
	outcome := trace.OutcomeOK
	if !res.OK {
		outcome = trace.OutcomeFailed
	}
	c.bus.Publish(trace.Event{Component: "normalizer", Stage: trace.StageNormalize, Outcome: outcome, Detail: string(res.Kind)})
	return res
}

// fetch tries each transport in order under the already-bounded context.
// The strategies never run concurrently: streaming fully fails before
// polling starts, and the last failure wins when both do.
func (c *Client) fetch(ctx context.Context, body []byte) (string, error) {
	var lastErr error
	for i, t := range c.transports {
		text, err := t.FetchText(ctx, c.endpoint, body)
		if err == nil {
			c.bus.Publish(trace.Event{Component: t.Name(), Stage: trace.StageTransport, Outcome: trace.OutcomeOK})
			return text, nil
		}
		lastErr = err
		outcome := trace.OutcomeFailed
		if i < len(c.transports)-1 {
			outcome = trace.OutcomeFallback
		}
		c.bus.Publish(trace.Event{Component: t.Name(), Stage: trace.StageTransport, Outcome: outcome, Err: err})
	}
	return "", lastErr
}

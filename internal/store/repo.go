package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// ExportEventData captures one PDF export attempt.
type ExportEventData struct {
	ExportID     string
	Kind         string
	FileName     string
	Pages        int
	Bytes        int64
	DurationMs   int64
	Success      bool
	Stage        string // failing pipeline stage, empty on success
	ErrorMessage string
}

// ExportEventRecord is a stored export event.
type ExportEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ExportID  string
	Kind      string
	FileName  string
	Pages     int
	Bytes     int64
	Duration  time.Duration
	Success   bool
	Stage     string
	Error     string
}

// GenerationEventData captures one generation request made from a session:
// a custom problem set, a level test or a diagnostic report.
type GenerationEventData struct {
	Mode         string
	Summary      string
	ProblemCount int
	Success      bool
	ErrorMessage string
}

// GenerationEventRecord is a stored generation event.
type GenerationEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	GenerationEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)
	// GetLLMEvent returns the event with id, or nil if there is none.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// AppendExport records a PDF export attempt.
	AppendExport(ctx context.Context, data ExportEventData) error
	QueryExports(ctx context.Context, opts QueryOpts) ([]ExportEventRecord, error)

	// AppendGeneration records a generation request.
	AppendGeneration(ctx context.Context, data GenerationEventData) error
	QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEventRecord, error)
}

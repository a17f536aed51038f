package transcript

// Packing defaults; config overrides these per run.
const (
	defaultBatchTokens    = 2000
	defaultOverheadTokens = 10
)

// ChunkOptions tunes how statements are packed into batches.
type ChunkOptions struct {
	// MaxTokens is the estimated-token budget per batch.
	MaxTokens int
	// CharsPerToken feeds EstimateTokens.
	CharsPerToken int
	// OverheadTokens is the fixed per-statement cost covering the marker
	// and speaker line wrapped around each statement in a request.
	OverheadTokens int
}

func (o ChunkOptions) withDefaults() ChunkOptions {
	if o.MaxTokens <= 0 {
		o.MaxTokens = defaultBatchTokens
	}
	if o.CharsPerToken <= 0 {
		o.CharsPerToken = defaultCharsPerToken
	}
	if o.OverheadTokens <= 0 {
		o.OverheadTokens = defaultOverheadTokens
	}
	return o
}

// StatementCost is the estimated token cost of carrying one statement in a
// batch, including the per-statement overhead.
func StatementCost(stmt Statement, opts ChunkOptions) int {
	opts = opts.withDefaults()
	return EstimateTokens(stmt.Text, opts.CharsPerToken) + opts.OverheadTokens
}

// Pack groups statements into order-preserving batches whose estimated cost
// stays within the budget. Statements are never split or truncated: one whose
// cost alone exceeds the budget travels as its own over-budget batch. Batch
// entries index into the statements slice, so every statement appears in
// exactly one batch.
func Pack(statements []Statement, opts ChunkOptions) []Batch {
	if len(statements) == 0 {
		return nil
	}
	opts = opts.withDefaults()
	var (
		batches []Batch
		current Batch
	)
	for i, stmt := range statements {
		cost := StatementCost(stmt, opts)
		if len(current.Statements) > 0 && current.EstimatedTokens+cost > opts.MaxTokens {
			batches = append(batches, current)
			current = Batch{}
		}
		current.Statements = append(current.Statements, i)
		current.EstimatedTokens += cost
	}
	return append(batches, current)
}

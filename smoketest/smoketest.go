package smoketest

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/shatter/geometry"
	"github.com/aukilabs/shatter/partition"
	"github.com/segmentio/encoding/json"
)

const (
	ErrTypeSmokeTestFailed = "smoke_test_failed"
	ErrTypeInvalidRequest  = "invalid_smoke_test_request"

	// MaxArenaSize and MaxNodeCount bound every smoke test request.
	MaxArenaSize = 1 << 24
	MaxNodeCount = 1 << 12

	defaultRuns      = 50
	defaultNodeCount = 25
	defaultArenaSize = 800
	maxErrors        = 10
)

type Options struct {
	// The partitioner under test.
	Partitioner partition.Partitioner

	// The maximum number of runs a request can ask for.
	MaxRuns int

	// The maximum duration of a smoke test.
	Timeout time.Duration

	// The maximum arena size a request can ask for. Requests above it are
	// rejected. 0 means MaxArenaSize.
	MaxArenaSize int

	// The maximum number of nodes per run a request can ask for. Requests
	// above it are rejected. 0 means MaxNodeCount.
	MaxNodeCount int
}

// Request describes a smoke test. Zero values use defaults.
type Request struct {
	Runs      int   `json:"runs,omitempty"`
	NodeCount int   `json:"node_count,omitempty"`
	ArenaSize int   `json:"arena_size,omitempty"`
	Seed      int64 `json:"seed,omitempty"`
}

type Result struct {
	Seed     int64         `json:"seed"`
	Runs     int           `json:"runs"`
	Failures int           `json:"failures"`
	Cells    int           `json:"cells"`
	Duration time.Duration `json:"duration"`
	Errors   []string      `json:"errors,omitempty"`
}

func (r Result) Passed() bool {
	return r.Failures == 0
}

// Run partitions randomly generated arenas with p and verifies every
// partition. It stops early when ctx is done.
func Run(ctx context.Context, p partition.Partitioner, req Request) (Result, error) {
	if err := req.Validate(MaxArenaSize, MaxNodeCount); err != nil {
		return Result{Seed: req.Seed}, err
	}
	req = withDefaults(req)

	res := Result{Seed: req.Seed}
	rng := rand.New(rand.NewSource(req.Seed))
	start := time.Now()

	for i := 0; i < req.Runs; i++ {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, errors.New("smoke test interrupted").
				WithTag("seed", req.Seed).
				WithTag("runs", res.Runs).
				Wrap(err)
		}

		root := geometry.MustNew(
			rng.Intn(2*req.ArenaSize)-req.ArenaSize,
			rng.Intn(2*req.ArenaSize)-req.ArenaSize,
			req.ArenaSize/2+rng.Intn(req.ArenaSize/2+1),
			req.ArenaSize/2+rng.Intn(req.ArenaSize/2+1),
		)
		nodes := generateNodes(rng, root, req.NodeCount)

		res.Runs++
		cells, err := p.Regions(root, nodes)
		if err == nil {
			err = partition.Verify(root, nodes, cells)
		}
		if err != nil {
			res.Failures++
			if len(res.Errors) < maxErrors {
				res.Errors = append(res.Errors, err.Error())
			}
			continue
		}

		res.Cells += len(cells)
	}

	res.Duration = time.Since(start)
	return res, nil
}

// Validate returns an error when the request asks for an arena larger than
// maxArenaSize or more than maxNodeCount nodes per run.
func (r Request) Validate(maxArenaSize, maxNodeCount int) error {
	if r.ArenaSize > maxArenaSize {
		return errors.New("arena size too large").
			WithType(ErrTypeInvalidRequest).
			WithTag("arena_size", r.ArenaSize).
			WithTag("max_arena_size", maxArenaSize)
	}

	if r.NodeCount > maxNodeCount {
		return errors.New("node count too large").
			WithType(ErrTypeInvalidRequest).
			WithTag("node_count", r.NodeCount).
			WithTag("max_node_count", maxNodeCount)
	}

	return nil
}

func withDefaults(req Request) Request {
	if req.Runs <= 0 {
		req.Runs = defaultRuns
	}
	if req.NodeCount <= 0 {
		req.NodeCount = defaultNodeCount
	}
	if req.ArenaSize <= 1 {
		req.ArenaSize = defaultArenaSize
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	return req
}

// generateNodes mixes infinite, square and rectangular nodes. Some nodes are
// anchored outside of root.
func generateNodes(rng *rand.Rand, root geometry.AABB, count int) []partition.Node {
	nodes := make([]partition.Node, count)
	w, h := root.Width(), root.Height()

	for i := range nodes {
		x := root.Left - w/4 + rng.Intn(w+w/2+1)
		y := root.Top - h/4 + rng.Intn(h+h/2+1)

		switch rng.Intn(8) {
		case 0:
			nodes[i] = partition.NewNode(x, y)
		case 1, 2, 3:
			nodes[i] = partition.NewSquareNode(x, y, rng.Intn(w/4+1))
		default:
			nodes[i] = partition.NewRectNode(x, y, rng.Intn(w/4+1), rng.Intn(h/4+1))
		}
	}

	return nodes
}

// HandleSmokeTest runs a smoke test described by the request body and
// answers with its result. Failed smoke tests answer 500.
func HandleSmokeTest(ctx context.Context, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logs.WithTag("remote_addr", r.RemoteAddr).
				Debug(errors.New("decoding smoke test request failed").Wrap(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := req.Validate(
			limit(opts.MaxArenaSize, MaxArenaSize),
			limit(opts.MaxNodeCount, MaxNodeCount),
		); err != nil {
			logs.WithTag("remote_addr", r.RemoteAddr).Debug(err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if opts.MaxRuns > 0 && req.Runs > opts.MaxRuns {
			req.Runs = opts.MaxRuns
		}

		runCtx := ctx
		if opts.Timeout > 0 {
			var cancel func()
			runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}

		res, err := Run(runCtx, opts.Partitioner, req)
		if err != nil {
			logs.Warn(err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		entry := logs.WithTag("seed", res.Seed).
			WithTag("runs", res.Runs).
			WithTag("failures", res.Failures).
			WithTag("cells", res.Cells).
			WithTag("duration", res.Duration)

		code := http.StatusOK
		if !res.Passed() {
			code = http.StatusInternalServerError
			entry.Error(errors.New("smoke test failed").
				WithType(ErrTypeSmokeTestFailed).
				WithTag("errors", res.Errors))
		} else {
			entry.Info("smoke test passed")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(res); err != nil {
			logs.Warn(errors.New("writing smoke test result failed").Wrap(err))
		}
	}
}

func limit(v, upper int) int {
	if v <= 0 || v > upper {
		return upper
	}
	return v
}

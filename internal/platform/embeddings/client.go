package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/platform/envutil"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

// Client turns text into fixed-dimension vectors. The generator itself is
// an external collaborator; everything downstream only sees the vectors.
type Client interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
	Dim() int
}

// NewFromEnv returns an HTTP client against EMBEDDINGS_URL when set, or a
// deterministic local fallback for development.
func NewFromEnv(log *logger.Logger) Client {
	url := envutil.String("EMBEDDINGS_URL", "")
	if url == "" {
		log.Warn("EMBEDDINGS_URL not set, using deterministic local embeddings")
		return &localClient{dim: types.EmbeddingDim}
	}
	return &httpClient{
		log:  log.With("client", "Embeddings"),
		url:  strings.TrimRight(url, "/") + "/embed",
		http: &http.Client{Timeout: 60 * time.Second},
		dim:  types.EmbeddingDim,
	}
}

type httpClient struct {
	log  *logger.Logger
	url  string
	http *http.Client
	dim  int
}

func (c *httpClient) Dim() int { return c.dim }

func (c *httpClient) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	body, err := json.Marshal(map[string]any{"inputs": inputs})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("embeddings service returned %d: %s", resp.StatusCode, string(raw))
	}

	var decoded struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}
	if len(decoded.Embeddings) != len(inputs) {
		return nil, fmt.Errorf("embeddings count mismatch: sent %d, got %d", len(inputs), len(decoded.Embeddings))
	}
	for i, vec := range decoded.Embeddings {
		if len(vec) != c.dim {
			return nil, fmt.Errorf("embedding %d has dimension %d, want %d", i, len(vec), c.dim)
		}
	}
	return decoded.Embeddings, nil
}

// localClient projects token hashes into a unit vector. Stable across
// processes, useful for dev and tests, not semantically meaningful.
type localClient struct {
	dim int
}

func (c *localClient) Dim() int { return c.dim }

func (c *localClient) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, text := range inputs {
		out[i] = c.embedOne(text)
	}
	return out, nil
}

func (c *localClient) embedOne(text string) []float32 {
	acc := make([]float64, c.dim)
	for _, token := range tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(token))
		rng := rand.New(rand.NewSource(int64(h.Sum64())))
		for j := range acc {
			acc[j] += rng.NormFloat64()
		}
	}
	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	vec := make([]float32, c.dim)
	if norm == 0 {
		return vec
	}
	for j, v := range acc {
		vec[j] = float32(v / norm)
	}
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}

package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/roomie-backend/internal/domain"
	"github.com/yungbote/roomie-backend/internal/ml/features"
	"github.com/yungbote/roomie-backend/internal/platform/apierr"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

// Artifact kinds persisted per training generation.
const (
	KindNeighbors  = "neighbors"
	KindReducer    = "reducer"
	KindClassifier = "classifier"
	KindScaler     = "scaler"
)

// tsLayout is fixed width, zero padded, UTC: lexical order of generation
// strings matches chronological order.
const tsLayout = "20060102T150405.000000000"

const pairLabelThreshold = 0.7

// Bundle is one immutable, fully-built model generation. Readers bind to a
// single bundle for the duration of a request; a training run installs a
// new bundle with one atomic pointer store.
type Bundle struct {
	Generation string
	Scaler     *Scaler
	Neighbors  *NeighborIndex
	Reducer    *Reducer
	Classifier *Logistic
}

type Config struct {
	Dir           string
	MinCorpus     int
	NeighborK     int
	MaxComponents int
	TrainSplit    float64
}

func (c Config) withDefaults() Config {
	if c.Dir == "" {
		c.Dir = "models"
	}
	if c.MinCorpus <= 0 {
		c.MinCorpus = 10
	}
	if c.NeighborK <= 0 {
		c.NeighborK = 5
	}
	if c.MaxComponents <= 0 {
		c.MaxComponents = 50
	}
	if c.TrainSplit <= 0 || c.TrainSplit >= 1 {
		c.TrainSplit = 0.8
	}
	return c
}

// Store trains, persists and serves model bundles.
type Store struct {
	log    *logger.Logger
	cfg    Config
	active atomic.Pointer[Bundle]
}

func NewStore(log *logger.Logger, cfg Config) *Store {
	return &Store{log: log.With("component", "ModelStore"), cfg: cfg.withDefaults()}
}

// Active returns the current bundle snapshot, nil when nothing is loaded.
func (s *Store) Active() *Bundle {
	return s.active.Load()
}

type Status struct {
	Trained       bool   `json:"models_trained"`
	NeighborIndex bool   `json:"neighbor_index"`
	Reducer       bool   `json:"reducer"`
	Classifier    bool   `json:"classifier"`
	Scaler        bool   `json:"scaler"`
	Generation    string `json:"generation,omitempty"`
}

func (s *Store) Status() Status {
	b := s.Active()
	if b == nil {
		return Status{}
	}
	return Status{
		Trained:       true,
		NeighborIndex: b.Neighbors != nil,
		Reducer:       b.Reducer != nil,
		Classifier:    b.Classifier != nil,
		Scaler:        b.Scaler != nil,
		Generation:    b.Generation,
	}
}

func (s *Store) MinCorpus() int { return s.cfg.MinCorpus }

type NeighborReport struct {
	Algorithm string `json:"algorithm"`
	K         int    `json:"n_neighbors"`
	Metric    string `json:"metric"`
	Status    string `json:"status"`
}

type ReducerReport struct {
	Algorithm         string  `json:"algorithm"`
	Components        int     `json:"n_components"`
	ExplainedVariance float64 `json:"explained_variance_ratio"`
	Status            string  `json:"status"`
}

type ClassifierReport struct {
	Algorithm   string  `json:"algorithm"`
	Accuracy    float64 `json:"accuracy"`
	TestSamples int     `json:"test_samples"`
	Status      string  `json:"status"`
}

type TrainingReport struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	UsersCount int    `json:"users_count"`
	Generation string `json:"generation"`
	Models     struct {
		Neighbors  NeighborReport   `json:"neighbors"`
		Reducer    ReducerReport    `json:"reducer"`
		Classifier ClassifierReport `json:"classifier"`
	} `json:"models"`
}

// Train fits a full bundle from the corpus and installs it atomically. The
// prior bundle stays active untouched when the corpus is too small or any
// step fails.
//
// Classifier labels are a placeholder: pairs drawn from the corpus are
// labeled by the heuristic rule score, not by real compatibility outcomes.
// Production use needs observed outcome labels.
func (s *Store) Train(ctx context.Context, corpus []*types.UserProfile) (*TrainingReport, error) {
	if len(corpus) < s.cfg.MinCorpus {
		s.log.Warn("training corpus below minimum", "found", len(corpus), "minimum", s.cfg.MinCorpus)
		return nil, apierr.New(http.StatusBadRequest, apierr.CodeInsufficientData,
			fmt.Errorf("need at least %d users, found %d", s.cfg.MinCorpus, len(corpus)))
	}
	s.log.Info("training models", "users", len(corpus))

	ids := make([]uuid.UUID, len(corpus))
	rows := make([][]float64, len(corpus))
	for i, u := range corpus {
		ids[i] = u.ID
		rows[i] = features.Build(u)
	}

	scaler, err := FitScaler(rows)
	if err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}
	scaled := scaler.TransformAll(rows)

	neighbors := FitNeighborIndex(s.cfg.NeighborK, ids, scaled)

	nComponents := s.cfg.MaxComponents
	if nComponents > features.Dim-1 {
		nComponents = features.Dim - 1
	}
	reducer, err := FitReducer(scaled, nComponents)
	if err != nil {
		return nil, fmt.Errorf("fit reducer: %w", err)
	}

	classifier, accuracy, testSamples, err := s.fitClassifier(corpus, scaled)
	if err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}

	bundle := &Bundle{
		Generation: time.Now().UTC().Format(tsLayout),
		Scaler:     scaler,
		Neighbors:  neighbors,
		Reducer:    reducer,
		Classifier: classifier,
	}
	if err := s.persist(bundle); err != nil {
		return nil, fmt.Errorf("persist artifacts: %w", err)
	}
	s.active.Store(bundle)
	s.log.Info("models trained", "generation", bundle.Generation, "accuracy", accuracy)

	report := &TrainingReport{
		Status:     "success",
		Message:    "all models trained",
		UsersCount: len(corpus),
		Generation: bundle.Generation,
	}
	report.Models.Neighbors = NeighborReport{
		Algorithm: "k-nearest neighbors",
		K:         s.cfg.NeighborK,
		Metric:    "cosine",
		Status:    "trained",
	}
	report.Models.Reducer = ReducerReport{
		Algorithm:         "truncated SVD",
		Components:        len(reducer.Components),
		ExplainedVariance: reducer.ExplainedVariance,
		Status:            "trained",
	}
	report.Models.Classifier = ClassifierReport{
		Algorithm:   "logistic regression",
		Accuracy:    accuracy,
		TestSamples: testSamples,
		Status:      "trained",
	}
	return report, nil
}

// fitClassifier builds a pair training set from the corpus (each user with
// its corpus successor plus one shuffled partner), labels pairs with the
// heuristic rule score, and fits the classifier on a stratified 80/20
// split of scaled pair vectors.
func (s *Store) fitClassifier(corpus []*types.UserProfile, scaled [][]float64) (*Logistic, float64, int, error) {
	n := len(corpus)
	rng := rand.New(rand.NewSource(42))

	type pair struct{ a, b int }
	pairs := make([]pair, 0, 2*n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, pair{i, (i + 1) % n})
	}
	perm := rng.Perm(n)
	for i, j := range perm {
		if i != j {
			pairs = append(pairs, pair{i, j})
		}
	}

	x := make([][]float64, 0, len(pairs))
	y := make([]int, 0, len(pairs))
	for _, p := range pairs {
		x = append(x, features.CombinePair(scaled[p.a], scaled[p.b]))
		label := 0
		if features.RuleScore(corpus[p.a], corpus[p.b]) > pairLabelThreshold {
			label = 1
		}
		y = append(y, label)
	}

	trainIdx, testIdx := stratifiedSplit(y, s.cfg.TrainSplit, rng)
	trainX := make([][]float64, 0, len(trainIdx))
	trainY := make([]int, 0, len(trainIdx))
	for _, i := range trainIdx {
		trainX = append(trainX, x[i])
		trainY = append(trainY, y[i])
	}

	model, err := FitLogistic(trainX, trainY)
	if err != nil {
		return nil, 0, 0, err
	}

	correct := 0
	for _, i := range testIdx {
		if model.Predict(x[i]) == y[i] {
			correct++
		}
	}
	accuracy := 1.0
	if len(testIdx) > 0 {
		accuracy = float64(correct) / float64(len(testIdx))
	}
	return model, accuracy, len(testIdx), nil
}

// stratifiedSplit partitions indices into train/test keeping the label
// ratio in both halves.
func stratifiedSplit(y []int, trainFrac float64, rng *rand.Rand) (train, test []int) {
	var pos, neg []int
	for i, label := range y {
		if label == 1 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	split := func(idx []int) {
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		cut := int(float64(len(idx)) * trainFrac)
		train = append(train, idx[:cut]...)
		test = append(test, idx[cut:]...)
	}
	split(pos)
	split(neg)
	return train, test
}

func (s *Store) persist(b *Bundle) error {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return err
	}
	artifacts := map[string]any{
		KindScaler:     b.Scaler,
		KindNeighbors:  b.Neighbors,
		KindReducer:    b.Reducer,
		KindClassifier: b.Classifier,
	}
	for kind, artifact := range artifacts {
		raw, err := json.Marshal(artifact)
		if err != nil {
			return fmt.Errorf("encode %s: %w", kind, err)
		}
		name := filepath.Join(s.cfg.Dir, fmt.Sprintf("%s_%s.json", kind, b.Generation))
		if err := os.WriteFile(name, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", kind, err)
		}
	}
	return nil
}

// LoadLatest scans persisted artifacts and installs the bundle with the
// lexically-maximum generation. Returns false without error when no
// artifacts exist.
func (s *Store) LoadLatest() (bool, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	latest := ""
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		_, gen, ok := splitArtifactName(e.Name())
		if !ok {
			continue
		}
		if gen > latest {
			latest = gen
		}
	}
	if latest == "" {
		s.log.Warn("no saved model artifacts found", "dir", s.cfg.Dir)
		return false, nil
	}

	bundle := &Bundle{Generation: latest}
	if err := s.loadArtifact(KindScaler, latest, &bundle.Scaler); err != nil {
		return false, err
	}
	if err := s.loadArtifact(KindNeighbors, latest, &bundle.Neighbors); err != nil {
		return false, err
	}
	if err := s.loadArtifact(KindReducer, latest, &bundle.Reducer); err != nil {
		return false, err
	}
	if err := s.loadArtifact(KindClassifier, latest, &bundle.Classifier); err != nil {
		return false, err
	}

	s.active.Store(bundle)
	s.log.Info("models loaded", "generation", latest)
	return true, nil
}

// loadArtifact decodes one artifact file into out; a missing file leaves
// out nil so the bundle degrades per-model instead of failing.
func (s *Store) loadArtifact(kind, gen string, out any) error {
	name := filepath.Join(s.cfg.Dir, fmt.Sprintf("%s_%s.json", kind, gen))
	raw, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn("artifact missing for generation", "kind", kind, "generation", gen)
			return nil
		}
		return err
	}
	return json.Unmarshal(raw, out)
}

func splitArtifactName(name string) (kind, gen string, ok bool) {
	if !strings.HasSuffix(name, ".json") {
		return "", "", false
	}
	base := strings.TrimSuffix(name, ".json")
	i := strings.Index(base, "_")
	if i <= 0 {
		return "", "", false
	}
	kind = base[:i]
	gen = base[i+1:]
	switch kind {
	case KindNeighbors, KindReducer, KindClassifier, KindScaler:
		return kind, gen, gen != ""
	}
	return "", "", false
}

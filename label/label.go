package label

import (
	"context"
	"slices"

	documentai "github.com/manish-aj/DocumentAI"
	"github.com/manish-aj/DocumentAI/distance"
)

// Example pairs a label with one of its prototype vectors.
type Example[L comparable] struct {
	Label  L
	Vector []float32
}

// Prediction is a labeled match, nearest first when returned in lists.
type Prediction[L comparable] struct {
	Label    L
	Distance float32
}

// LabelerOptions contains options for NewLabeler.
type LabelerOptions struct {
	// Metric selects the distance metric used for prediction.
	// Default: distance.MetricCosine.
	Metric distance.Metric
}

// Labeler assigns labels to vectors by prototype similarity.
//
// A Labeler is immutable after construction and safe for concurrent use.
type Labeler[L comparable] struct {
	candidates []documentai.Candidate[L]
	labels     []L
	metric     distance.Metric
	dimension  int
}

// NewLabeler builds a labeler from labeled prototype vectors.
//
// All prototypes must share one dimensionality. Ties between equally near
// prototypes resolve in example order.
func NewLabeler[L comparable](examples []Example[L], optFns ...func(o *LabelerOptions)) (*Labeler[L], error) {
	opts := LabelerOptions{
		Metric: distance.MetricCosine,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if len(examples) == 0 {
		return nil, documentai.ErrEmptyCandidates
	}

	if _, err := distance.Provider(opts.Metric); err != nil {
		return nil, err
	}

	dim := len(examples[0].Vector)

	candidates := make([]documentai.Candidate[L], 0, len(examples))
	labels := make([]L, 0, len(examples))
	seen := make(map[L]struct{}, len(examples))

	for _, ex := range examples {
		if len(ex.Vector) == 0 {
			return nil, documentai.ErrEmptyVector
		}
		if len(ex.Vector) != dim {
			return nil, &documentai.ErrDimensionMismatch{Expected: dim, Actual: len(ex.Vector)}
		}

		candidates = append(candidates, documentai.Candidate[L]{
			ID:     ex.Label,
			Vector: slices.Clone(ex.Vector),
		})

		if _, ok := seen[ex.Label]; !ok {
			seen[ex.Label] = struct{}{}
			labels = append(labels, ex.Label)
		}
	}

	return &Labeler[L]{
		candidates: candidates,
		labels:     labels,
		metric:     opts.Metric,
		dimension:  dim,
	}, nil
}

// Labels returns the distinct labels in first-seen order.
func (l *Labeler[L]) Labels() []L {
	return slices.Clone(l.labels)
}

// Len returns the number of prototype vectors.
func (l *Labeler[L]) Len() int {
	return len(l.candidates)
}

// Dimension returns the prototype dimensionality.
func (l *Labeler[L]) Dimension() int {
	return l.dimension
}

// Predict returns the label whose prototype is nearest to vec.
func (l *Labeler[L]) Predict(ctx context.Context, vec []float32) (Prediction[L], error) {
	preds, err := l.PredictTopN(ctx, vec, 1)
	if err != nil {
		return Prediction[L]{}, err
	}
	return preds[0], nil
}

// PredictTopN returns up to n distinct labels ordered by ascending distance
// of their nearest prototype. n larger than the label count returns all
// labels; n <= 0 returns an empty slice.
func (l *Labeler[L]) PredictTopN(ctx context.Context, vec []float32, n int) ([]Prediction[L], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(vec) == 0 {
		return nil, documentai.ErrEmptyVector
	}
	if len(vec) != l.dimension {
		return nil, &documentai.ErrDimensionMismatch{Expected: l.dimension, Actual: len(vec)}
	}

	if n <= 0 {
		return []Prediction[L]{}, nil
	}

	ranked, err := documentai.Rank(vec, l.candidates, func(o *documentai.RankOptions) {
		o.Metric = l.metric
	})
	if err != nil {
		return nil, err
	}

	// Labels can carry several prototypes; report each label once, at its
	// nearest prototype's distance.
	seen := make(map[L]struct{}, n)
	preds := make([]Prediction[L], 0, n)
	for _, m := range ranked {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}

		preds = append(preds, Prediction[L]{Label: m.ID, Distance: m.Distance})
		if len(preds) == n {
			break
		}
	}

	return preds, nil
}

// Package label provides zero-shot labeling by embedding similarity.
//
// A Labeler holds prototype vectors for each label, typically the embedding
// of the label's description. Predict embeds nothing itself: it takes an
// already-embedded input and returns the label whose prototype is nearest.
// No training is involved.
//
// # Usage
//
//	labeler, err := label.NewLabeler([]label.Example[string]{
//		{Label: "positive", Vector: positiveEmbedding},
//		{Label: "negative", Vector: negativeEmbedding},
//	})
//	if err != nil {
//		return err
//	}
//	pred, err := labeler.Predict(ctx, reviewEmbedding)
//	// pred.Label is "positive" or "negative", pred.Distance the gap.
//
// A label may carry several prototypes; prediction then uses the nearest
// one, and PredictTopN reports each label at most once.
package label

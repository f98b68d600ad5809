package bench

import (
	"fmt"

	saber "github.com/jamesainslie/go-saber"
	"github.com/jamesainslie/go-saber/metrics"
)

// ScoreSentences scores predicted against gold tags across sentences.
func ScoreSentences(sentences []Sentence) (metrics.Table, error) {
	gold, pred := FlattenTags(sentences)
	return saber.ScoreTags(gold, pred)
}

// ScoreFile scores a CoNLL prediction file.
func ScoreFile(path string) (metrics.Table, error) {
	sentences, err := LoadConll(path)
	if err != nil {
		return nil, err
	}
	table, err := ScoreSentences(sentences)
	if err != nil {
		return nil, fmt.Errorf("scoring %s: %w", path, err)
	}
	return table, nil
}

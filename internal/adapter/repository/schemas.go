package repository

import (
	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/pkg/filterexpr"
)

var listSavedPhrasesSchema = filterexpr.ResourceSchema{
	Fields: map[string]filterexpr.ValueKind{
		"topic":          filterexpr.KindString,
		"status":         filterexpr.KindString,
		"source":         filterexpr.KindString,
		"text_en":        filterexpr.KindString,
		"practice_count": filterexpr.KindNumber,
		"avg_score":      filterexpr.KindNumber,
		"created_at":     filterexpr.KindTimestamp,
	},
	Order: filterexpr.OrderSchema{
		DefaultPrimary:     "created_at",
		DefaultPrimaryDesc: true,
		FallbackKey:        "text_en",
		FallbackDesc:       false,
		Fields: map[string]filterexpr.ValueKind{
			"created_at":     filterexpr.KindTimestamp,
			"avg_score":      filterexpr.KindNumber,
			"practice_count": filterexpr.KindNumber,
			"text_en":        filterexpr.KindString,
		},
	},
}

func phraseFilterVars(p entity.SavedPhrase) map[string]any {
	return map[string]any{
		"topic":          p.TopicOrDefault(),
		"status":         string(p.Status),
		"source":         string(p.Source),
		"text_en":        p.TextEN,
		"practice_count": float64(p.PracticeCount),
		"avg_score":      p.AvgScore,
		"created_at":     p.CreatedAt,
	}
}

func phraseOrderValue(p entity.SavedPhrase, field string) any {
	switch field {
	case "avg_score":
		return p.AvgScore
	case "practice_count":
		return p.PracticeCount
	case "text_en":
		return p.TextEN
	default:
		return p.CreatedAt
	}
}

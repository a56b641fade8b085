package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// EmbeddingDimensions is the vector length produced by the default models.
const EmbeddingDimensions = 384

// ParseEmbedding normalises a stored embedding into a numeric vector.
//
// Accepted shapes:
//   - []float64, []float32 and []any holding numbers
//   - a JSON array string such as "[0.1, -0.2]"
//   - a brace or bracket delimited comma list such as "{0.1,0.2}"
//
// Anything else, or a shape that yields no numbers, returns nil.
func ParseEmbedding(raw any) []float64 {
	switch v := raw.(type) {
	case []float64:
		if len(v) == 0 {
			return nil
		}
		out := make([]float64, len(v))
		copy(out, v)
		return out
	case []float32:
		if len(v) == 0 {
			return nil
		}
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out
	case []any:
		return parseAnySlice(v)
	case []byte:
		return parseEmbeddingString(string(v))
	case string:
		return parseEmbeddingString(v)
	default:
		return nil
	}
}

func parseAnySlice(items []any) []float64 {
	out := make([]float64, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case float64:
			out = append(out, n)
		case float32:
			out = append(out, float64(n))
		case int:
			out = append(out, float64(n))
		case int64:
			out = append(out, float64(n))
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil
			}
			out = append(out, f)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil
			}
			out = append(out, f)
		default:
			return nil
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseEmbeddingString(s string) []float64 {
	var arr []float64
	if err := json.Unmarshal([]byte(s), &arr); err == nil {
		if len(arr) == 0 {
			return nil
		}
		return arr
	}

	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', '[', ']':
			return -1
		}
		return r
	}, s)

	var out []float64
	for _, part := range strings.Split(cleaned, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FormatEmbedding encodes a vector as a bracketed JSON array.
// ParseEmbedding(FormatEmbedding(v)) returns v.
func FormatEmbedding(vec []float64) string {
	var b strings.Builder
	b.Grow(len(vec) * 12)
	b.WriteByte('[')
	for i, x := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	}
	b.WriteByte(']')
	return b.String()
}

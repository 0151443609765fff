package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrMissingID is returned for records that cannot be keyed.
var ErrMissingID = errors.New("document id is required")

var uploadDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type wireDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category,omitempty"`
	Source      string   `json:"source,omitempty"`
	Type        string   `json:"type,omitempty"`
	FileSize    int64    `json:"file_size,omitempty"`
	ChunkCount  int      `json:"chunk_count,omitempty"`
	UploadDate  string   `json:"upload_date,omitempty"`
}

// MarshalJSON encodes the record in the wire shape DecodeBatch accepts.
func (r Raw) MarshalJSON() ([]byte, error) {
	w := wireDocument{
		ID:          r.ID,
		Title:       r.Title,
		Content:     r.Content,
		Description: r.Description,
		Tags:        r.Tags,
		Category:    r.Category,
		Source:      r.Source,
		Type:        r.Type,
		FileSize:    r.FileSize,
		ChunkCount:  r.ChunkCount,
	}
	if w.Tags == nil {
		w.Tags = []string{}
	}
	if !r.UploadDate.IsZero() {
		w.UploadDate = r.UploadDate.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(w)
}

// DecodeBatch decodes a JSON array of document records.
// Only a payload that is not an array is an error. Malformed fields fall back
// to empty values; elements that are not objects or carry no id are skipped
// and reported in the returned count.
func DecodeBatch(data []byte) ([]Raw, int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, 0, fmt.Errorf("decode documents: %w", err)
	}

	docs := make([]Raw, 0, len(items))
	skipped := 0
	for _, item := range items {
		doc, err := Decode(item)
		if err != nil {
			skipped++
			continue
		}
		docs = append(docs, doc)
	}
	return docs, skipped, nil
}

// Decode decodes a single document record leniently.
func Decode(data []byte) (Raw, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Raw{}, fmt.Errorf("decode document: %w", err)
	}
	if fields == nil {
		return Raw{}, fmt.Errorf("decode document: not an object")
	}

	doc := Raw{
		ID:          lenientString(fields["id"]),
		Title:       lenientString(fields["title"]),
		Content:     lenientString(fields["content"]),
		Description: lenientString(fields["description"]),
		Tags:        lenientStrings(fields["tags"]),
		Category:    lenientString(fields["category"]),
		Source:      lenientString(fields["source"]),
		Type:        lenientString(fields["type"]),
		FileSize:    clampInt64(lenientNumber(fields["file_size"])),
		ChunkCount:  int(min(clampInt64(lenientNumber(fields["chunk_count"])), math.MaxInt)),
		UploadDate:  lenientTime(fields["upload_date"]),
	}
	if doc.ID == "" {
		return Raw{}, ErrMissingID
	}
	return doc, nil
}

func lenientString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func lenientStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := strings.TrimSpace(lenientString(raw)); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := lenientString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lenientNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return sanitize(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return sanitize(f)
		}
	}
	return 0
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// clampInt64 converts a sanitized number, saturating at math.MaxInt64.
func clampInt64(f float64) int64 {
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}

func lenientTime(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		for _, layout := range uploadDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}
	}
	if ms := lenientNumber(raw); ms > 0 {
		return time.UnixMilli(clampInt64(ms)).UTC()
	}
	return time.Time{}
}

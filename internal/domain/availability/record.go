// Package availability normalizes heterogeneous weekly-availability records
// into a single canonical weekly shape and computes schedule overlap scores.
//
// Upstream data drifted across schema generations: a day's value may be a
// bare slot array or a {slots, repeatType} object, and keys may be weekday
// names or calendar dates. The variant is resolved here, once, at the
// boundary; nothing past Normalize ever sees it.
package availability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shiftmatch/shiftmatch/internal/domain/timeslot"
)

// RepeatType classifies how a day entry recurs.
type RepeatType string

// Recognized repeat types. Anything else collapses to RepeatCustom.
const (
	RepeatWeekly   RepeatType = "weekly"
	RepeatBiweekly RepeatType = "biweekly"
	RepeatCustom   RepeatType = "custom"
)

// normalizeRepeat maps raw repeat strings onto a known RepeatType.
func normalizeRepeat(raw string) RepeatType {
	switch RepeatType(strings.ToLower(strings.TrimSpace(raw))) {
	case RepeatWeekly:
		return RepeatWeekly
	case RepeatBiweekly:
		return RepeatBiweekly
	default:
		return RepeatCustom
	}
}

// DayEntry is the tagged variant carried by one key of a raw record: a slot
// list plus the repeat rule that governs it.
type DayEntry struct {
	Slots  []timeslot.Slot
	Repeat RepeatType
}

// UnmarshalJSON accepts both upstream shapes: a bare JSON array of slots
// (implicit repeat "custom") and a {"slots": [...], "repeatType": "..."}
// object.
func (e *DayEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var slots []timeslot.Slot
		if err := json.Unmarshal(trimmed, &slots); err != nil {
			return fmt.Errorf("availability day entry: %w", err)
		}
		e.Slots = slots
		e.Repeat = RepeatCustom
		return nil
	}

	var obj struct {
		Slots  []timeslot.Slot `json:"slots"`
		Repeat string          `json:"repeatType"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("availability day entry: %w", err)
	}
	e.Slots = obj.Slots
	e.Repeat = normalizeRepeat(obj.Repeat)
	return nil
}

// MarshalJSON always emits the object form; the array form exists only for
// reading legacy payloads.
func (e DayEntry) MarshalJSON() ([]byte, error) {
	slots := e.Slots
	if slots == nil {
		slots = []timeslot.Slot{}
	}
	repeat := e.Repeat
	if repeat == "" {
		repeat = RepeatCustom
	}
	return json.Marshal(struct {
		Slots  []timeslot.Slot `json:"slots"`
		Repeat RepeatType      `json:"repeatType"`
	}{Slots: slots, Repeat: repeat})
}

// DayRecord pairs a raw key (weekday name or calendar date) with its entry.
type DayRecord struct {
	Key   string
	Entry DayEntry
}

// Record is a raw availability record with preserved key order. Order
// matters: normalization keeps only the first occurrence of each weekday,
// so two records with the same pairs in different order may normalize
// differently. The JSON codec below retains object insertion order, which
// map-based decoding would destroy.
type Record []DayRecord

// UnmarshalJSON decodes a JSON object while preserving key order, using the
// token stream rather than an intermediate map.
func (r *Record) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("availability record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("availability record: expected object, got %v", tok)
	}

	out := Record{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("availability record: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("availability record: non-string key %v", keyTok)
		}
		var entry DayEntry
		if err := dec.Decode(&entry); err != nil {
			return err
		}
		out = append(out, DayRecord{Key: key, Entry: entry})
	}
	if _, err := dec.Token(); err != nil { // consume closing brace
		return fmt.Errorf("availability record: %w", err)
	}

	*r = out
	return nil
}

// MarshalJSON re-emits the record as a JSON object in original key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(day.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		entry, err := json.Marshal(day.Entry)
		if err != nil {
			return nil, err
		}
		buf.Write(entry)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// dateLayouts are the calendar-date key formats seen in upstream records.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// weekdayOf resolves a record key to its weekday: weekday names match
// directly (case-insensitive), calendar dates go through a calendar
// lookup. Unresolvable keys report ok=false and are skipped upstream.
func weekdayOf(key string) (time.Weekday, bool) {
	name := strings.ToLower(strings.TrimSpace(key))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if name == strings.ToLower(wd.String()) {
			return wd, true
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(key)); err == nil {
			return t.Weekday(), true
		}
	}
	return time.Sunday, false
}

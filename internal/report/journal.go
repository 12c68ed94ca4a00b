package report

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/xtxerr/extsort/config"
	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/types/known/structpb"
)

// Journal writes snapshots as length-delimited protobuf Struct frames.
// Values must be representable by structpb (numbers, strings, bools).
//
// Observers cannot return errors, so the first failure is kept and every
// later snapshot is dropped. Check Err when the sort is done.
// It is safe for concurrent use.
type Journal[T any] struct {
	w   io.Writer
	mu  sync.Mutex
	err error
	n   int
}

// NewJournal creates a journal writing to w.
func NewJournal[T any](w io.Writer) *Journal[T] {
	return &Journal[T]{w: w}
}

// ObservePhase implements Observer.
func (j *Journal[T]) ObservePhase(s Snapshot[T]) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.err != nil {
		return
	}

	msg, err := encodeSnapshot(s)
	if err != nil {
		j.err = fmt.Errorf("encode phase %d: %w", s.Phase, err)
		return
	}
	if _, err := protodelim.MarshalTo(j.w, msg); err != nil {
		j.err = fmt.Errorf("write phase %d: %w", s.Phase, err)
		return
	}
	j.n++
}

// Err returns the first encode or write error.
func (j *Journal[T]) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Frames returns the number of snapshots written.
func (j *Journal[T]) Frames() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.n
}

func encodeSnapshot[T any](s Snapshot[T]) (*structpb.Struct, error) {
	labels := make([]any, len(s.Labels))
	for i, l := range s.Labels {
		labels[i] = l
	}
	dummies := make([]any, len(s.Dummies))
	for i, d := range s.Dummies {
		dummies[i] = d
	}
	files := make([]any, len(s.Files))
	for i, runs := range s.Files {
		fr := make([]any, len(runs))
		for j, run := range runs {
			vals := make([]any, len(run))
			for k, v := range run {
				vals[k] = v
			}
			fr[j] = vals
		}
		files[i] = fr
	}

	return structpb.NewStruct(map[string]any{
		"strategy": s.Strategy,
		"phase":    s.Phase,
		"labels":   labels,
		"dummies":  dummies,
		"files":    files,
		"runs":     s.Runs,
		"values":   s.Values,
		"ratio":    s.Ratio,
	})
}

// Entry is one decoded journal frame. Numeric values come back as float64.
type Entry struct {
	Strategy string
	Phase    int
	Labels   []string
	Dummies  []int
	Files    [][][]any
	Runs     int
	Values   int
	Ratio    float64
}

// ReadJournal decodes every frame in r.
func ReadJournal(r io.Reader) ([]Entry, error) {
	br := bufio.NewReader(r)
	opts := protodelim.UnmarshalOptions{
		MaxSize: config.DefaultJournalMaxFrameSize,
	}

	var entries []Entry
	for {
		msg := &structpb.Struct{}
		if err := opts.UnmarshalFrom(br, msg); err != nil {
			if err == io.EOF {
				return entries, nil
			}
			return entries, fmt.Errorf("read frame %d: %w", len(entries), err)
		}
		entries = append(entries, decodeEntry(msg.AsMap()))
	}
}

func decodeEntry(m map[string]any) Entry {
	e := Entry{
		Strategy: asString(m["strategy"]),
		Phase:    asInt(m["phase"]),
		Runs:     asInt(m["runs"]),
		Values:   asInt(m["values"]),
	}
	if f, ok := m["ratio"].(float64); ok {
		e.Ratio = f
	}
	for _, l := range asList(m["labels"]) {
		e.Labels = append(e.Labels, asString(l))
	}
	for _, d := range asList(m["dummies"]) {
		e.Dummies = append(e.Dummies, asInt(d))
	}
	for _, f := range asList(m["files"]) {
		var runs [][]any
		for _, r := range asList(f) {
			runs = append(runs, asList(r))
		}
		e.Files = append(e.Files, runs)
	}
	return e
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	f, _ := v.(float64)
	return int(f)
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/lwch/logging"
)

const defaultMaxTokenSize = bufio.MaxScanTokenSize

type scanOptions struct {
	split        bufio.SplitFunc
	normalize    func(string) string
	minCount     int
	maxTokenSize int
}

// Option configures ScanReaders and ScanFiles.
type Option func(*scanOptions)

// WithSplit sets how input is cut into tokens, bufio.ScanWords by default.
func WithSplit(split bufio.SplitFunc) Option {
	return func(o *scanOptions) {
		o.split = split
	}
}

// WithNormalize maps every token before it is counted. Tokens normalized to
// the empty string are skipped.
func WithNormalize(fn func(string) string) Option {
	return func(o *scanOptions) {
		o.normalize = fn
	}
}

// WithMinCount prunes tokens seen fewer than n times once scanning is done.
func WithMinCount(n int) Option {
	return func(o *scanOptions) {
		o.minCount = n
	}
}

// WithMaxTokenSize sets the longest token the scanner accepts. Values below 1
// keep the default, bufio.MaxScanTokenSize.
func WithMaxTokenSize(n int) Option {
	return func(o *scanOptions) {
		if n > 0 {
			o.maxTokenSize = n
		}
	}
}

func buildOptions(opts []Option) scanOptions {
	o := scanOptions{
		split:        bufio.ScanWords,
		maxTokenSize: defaultMaxTokenSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// counted is what one reader contributes: its distinct tokens in first seen
// order and how often each occurred.
type counted struct {
	order []string
	freq  map[string]int
	total int
}

func countTokens(r io.Reader, o *scanOptions) (*counted, error) {
	c := &counted{freq: make(map[string]int)}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, min(4096, o.maxTokenSize)), o.maxTokenSize)
	s.Split(o.split)
	for s.Scan() {
		tk := s.Text()
		if o.normalize != nil {
			tk = o.normalize(tk)
		}
		if tk == "" {
			continue
		}
		if _, ok := c.freq[tk]; !ok {
			c.order = append(c.order, tk)
		}
		c.freq[tk]++
		c.total++
	}
	return c, s.Err()
}

// ScanReaders tokenizes every reader concurrently and builds a vocabulary of
// everything seen, along with how often each token occurred. Ids follow the
// order of first occurrence, readers taken in the order given, so the result
// does not depend on scheduling.
func ScanReaders(readers []io.Reader, opts ...Option) (*Vocabulary[string], []int, error) {
	return scanReaders(readers, func(i int) string {
		return fmt.Sprintf("reader %d", i)
	}, buildOptions(opts))
}

// scanReaders names reader i with name(i) in errors and logs.
func scanReaders(readers []io.Reader, name func(int) string, o scanOptions) (*Vocabulary[string], []int, error) {
	var wg sync.WaitGroup
	var readen atomic.Int64
	var pending atomic.Int64
	pending.Add(int64(len(readers)))
	results := make([]*counted, len(readers))
	errs := make([]error, len(readers))
	wg.Add(len(readers))
	for i, r := range readers {
		go func(i int, r io.Reader) {
			defer wg.Done()
			c, err := countTokens(r, &o)
			if err != nil {
				logging.Error("scan %s: %v", name(i), err)
				errs[i] = fmt.Errorf("scan %s: %w", name(i), err)
				return
			}
			results[i] = c
			readen.Add(int64(c.total))
			pending.Add(-1)
			logging.Info("%d tokens readen, %d readers pending", readen.Load(), pending.Load())
		}(i, r)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}

	v := New[string]()
	var counts []int
	for _, c := range results {
		for _, tk := range c.order {
			id, created := v.Add(tk)
			if created {
				counts = append(counts, 0)
			}
			counts[id] += c.freq[tk]
		}
	}
	logging.Info("scan: %d distinct tokens from %d readers", v.Size(), len(readers))

	if o.minCount > 1 {
		counts = Remap(v.Prune(counts, o.minCount), counts)
	}
	return v, counts, nil
}

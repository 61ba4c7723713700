package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	dynstr "github.com/ahrav/go-dynstr"
)

// payload is the input shared by every scenario of a run.
type payload struct {
	// text is comma separated words, exactly size bytes long.
	text string
	// needle occurs once, near the end of text.
	needle string
}

const needle = "needle"

func newPayload(size int) payload {
	var b strings.Builder
	words := []string{"alpha", "Beta", "gamma", "DELTA", "epsilon"}
	for i := 0; b.Len() < size; i++ {
		b.WriteString(words[i%len(words)])
		b.WriteString(", ")
	}
	text := b.String()[:size]
	if size > len(needle) {
		text = text[:size-len(needle)-1] + needle + text[size-1:]
	}
	return payload{text: text, needle: needle}
}

// scenario pairs a DynString workload with the equivalent standard library
// workload. Both sides return their result so a run can check that they agree
// before timing them.
type scenario struct {
	name     string
	dynamic  func(p payload, opts []dynstr.Option) (string, error)
	baseline func(p payload) string
}

var scenarios = []scenario{
	{
		name: "append",
		dynamic: func(p payload, opts []dynstr.Option) (string, error) {
			s, err := dynstr.New("", opts...)
			if err != nil {
				return "", err
			}
			defer s.Free()
			for i := 0; i < len(p.text); i += 16 {
				if err := s.AppendString(p.text[i:min(i+16, len(p.text))]); err != nil {
					return "", err
				}
			}
			return s.String(), nil
		},
		baseline: func(p payload) string {
			var b []byte
			for i := 0; i < len(p.text); i += 16 {
				b = append(b, p.text[i:min(i+16, len(p.text))]...)
			}
			return string(b)
		},
	},
	{
		name: "set-clear",
		dynamic: func(p payload, opts []dynstr.Option) (string, error) {
			s, err := dynstr.New("", opts...)
			if err != nil {
				return "", err
			}
			defer s.Free()
			for i := 0; i < 4; i++ {
				s.Clear()
				if err := s.Set(p.text); err != nil {
					return "", err
				}
			}
			return s.String(), nil
		},
		baseline: func(p payload) string {
			var b []byte
			for i := 0; i < 4; i++ {
				b = append(b[:0], p.text...)
			}
			return string(b)
		},
	},
	{
		name: "find",
		dynamic: func(p payload, opts []dynstr.Option) (string, error) {
			s, err := dynstr.New(p.text, opts...)
			if err != nil {
				return "", err
			}
			defer s.Free()
			return fmt.Sprint(s.FindString(p.needle)), nil
		},
		baseline: func(p payload) string {
			return fmt.Sprint(bytes.Index([]byte(p.text), []byte(p.needle)))
		},
	},
	{
		name: "replace",
		dynamic: func(p payload, opts []dynstr.Option) (string, error) {
			s, err := dynstr.New(p.text, opts...)
			if err != nil {
				return "", err
			}
			defer s.Free()
			if err := s.Replace(", ", " | "); err != nil {
				return "", err
			}
			return s.String(), nil
		},
		baseline: func(p payload) string {
			return string(bytes.ReplaceAll([]byte(p.text), []byte(", "), []byte(" | ")))
		},
	},
	{
		name: "split-join",
		dynamic: func(p payload, opts []dynstr.Option) (string, error) {
			s, err := dynstr.New(p.text, opts...)
			if err != nil {
				return "", err
			}
			defer s.Free()
			parts, err := s.Split(", ")
			if err != nil {
				return "", err
			}
			defer func() {
				for _, part := range parts {
					part.Free()
				}
			}()
			out, err := dynstr.Join(parts, ";", opts...)
			if err != nil {
				return "", err
			}
			defer out.Free()
			return out.String(), nil
		},
		baseline: func(p payload) string {
			return string(bytes.Join(bytes.Split([]byte(p.text), []byte(", ")), []byte(";")))
		},
	},
	{
		name: "case",
		dynamic: func(p payload, opts []dynstr.Option) (string, error) {
			s, err := dynstr.New(p.text, opts...)
			if err != nil {
				return "", err
			}
			defer s.Free()
			s.ToUpper()
			upper := s.Len()
			s.ToLower()
			return fmt.Sprintf("%d:%s", upper, s), nil
		},
		baseline: func(p payload) string {
			upper := bytes.ToUpper([]byte(p.text))
			return fmt.Sprintf("%d:%s", len(upper), bytes.ToLower(upper))
		},
	},
	{
		name: "trim",
		dynamic: func(p payload, opts []dynstr.Option) (string, error) {
			s, err := dynstr.New(" \t "+p.text+" \n ", opts...)
			if err != nil {
				return "", err
			}
			defer s.Free()
			s.Trim()
			return s.String(), nil
		},
		baseline: func(p payload) string {
			return string(bytes.TrimSpace([]byte(" \t " + p.text + " \n ")))
		},
	},
}

func lookupScenario(name string) (scenario, bool) {
	for _, sc := range scenarios {
		if sc.name == name {
			return sc, true
		}
	}
	return scenario{}, false
}

// selectScenarios resolves names to scenarios, in definition order when
// names is empty.
func selectScenarios(names []string) ([]scenario, error) {
	if len(names) == 0 {
		return scenarios, nil
	}
	out := make([]scenario, 0, len(names))
	for _, name := range names {
		sc, ok := lookupScenario(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		out = append(out, sc)
	}
	return out, nil
}

// result holds the timings of one scenario.
type result struct {
	Name       string
	DynNsOp    float64
	StdNsOp    float64
	Iterations int
}

// Ratio is DynString time over standard library time.
func (r result) Ratio() float64 {
	if r.StdNsOp == 0 {
		return 0
	}
	return r.DynNsOp / r.StdNsOp
}

// runScenario checks that both sides of sc agree on p and then times each
// of them over iters iterations.
func runScenario(ctx context.Context, sc scenario, p payload, iters int, opts []dynstr.Option, log zerolog.Logger) (result, error) {
	got, err := sc.dynamic(p, opts)
	if err != nil {
		return result{}, fmt.Errorf("%s: %w", sc.name, err)
	}
	if want := sc.baseline(p); got != want {
		return result{}, fmt.Errorf("%s: result mismatch (dynstr %d bytes, std %d bytes)", sc.name, len(got), len(want))
	}

	start := time.Now()
	for i := 0; i < iters; i++ {
		if i%256 == 0 && ctx.Err() != nil {
			return result{}, ctx.Err()
		}
		if _, err := sc.dynamic(p, opts); err != nil {
			return result{}, fmt.Errorf("%s: %w", sc.name, err)
		}
	}
	dyn := time.Since(start)

	start = time.Now()
	for i := 0; i < iters; i++ {
		if i%256 == 0 && ctx.Err() != nil {
			return result{}, ctx.Err()
		}
		_ = sc.baseline(p)
	}
	std := time.Since(start)

	r := result{
		Name:       sc.name,
		DynNsOp:    float64(dyn.Nanoseconds()) / float64(iters),
		StdNsOp:    float64(std.Nanoseconds()) / float64(iters),
		Iterations: iters,
	}
	log.Debug().
		Str("scenario", sc.name).
		Dur("dynstr", dyn).
		Dur("std", std).
		Float64("ratio", r.Ratio()).
		Msg("scenario done")
	return r, nil
}

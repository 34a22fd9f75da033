// Package loader builds string-typed state machines from YAML documents.
//
//	initial: Idle
//	transitions:
//	  - from: Idle
//	    on: Connected
//	    to: Loading
//	    do: ["fire:LoadSuccess"]
//	  - from: Idle
//	    on: Ping
//	    internal: true
//	actions:
//	  - from: Idle
//	    to: Idle
//	    via: Ping
//	    tier: first
//	    do: ["shelve"]
//
// "*" (or an omitted field) matches any state or event. Verbs are "fire:<event>",
// "shelve", "unshelve" and "log".
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/enetx/g"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/enetx/fsm/v2"
)

// Wildcard matches any state or event.
const Wildcard = "*"

// ErrInvalidDocument is wrapped by every validation error.
var ErrInvalidDocument = errors.New("invalid machine document")

type (
	// Document is the YAML representation of a machine.
	Document struct {
		Initial     string          `yaml:"initial"`
		Transitions []TransitionDoc `yaml:"transitions"`
		Actions     []ActionDoc     `yaml:"actions"`
	}

	// TransitionDoc is one rule of the transition table. Do binds actions to it.
	TransitionDoc struct {
		From     string   `yaml:"from"`
		On       string   `yaml:"on"`
		To       string   `yaml:"to"`
		Internal bool     `yaml:"internal"`
		Tier     string   `yaml:"tier"`
		Do       []string `yaml:"do"`
	}

	// ActionDoc binds verbs to every transition matching from, to and via.
	ActionDoc struct {
		From string   `yaml:"from"`
		To   string   `yaml:"to"`
		Via  string   `yaml:"via"`
		Tier string   `yaml:"tier"`
		Do   []string `yaml:"do"`
	}
)

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates a document. Unknown fields are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Validate reports every structural problem of the document.
func (d *Document) Validate() error {
	var errs []error

	if d.Initial == "" {
		errs = append(errs, fmt.Errorf("%w: initial state is required", ErrInvalidDocument))
	}

	for i, t := range d.Transitions {
		if t.From == "" {
			errs = append(errs, fmt.Errorf("%w: transition %d: from is required", ErrInvalidDocument, i))
		}

		if t.To == "" && !t.Internal {
			errs = append(errs, fmt.Errorf("%w: transition %d: to is required unless internal", ErrInvalidDocument, i))
		}

		if t.To != "" && t.Internal {
			errs = append(errs, fmt.Errorf("%w: transition %d: internal transitions have no target", ErrInvalidDocument, i))
		}

		errs = append(errs, checkTier(t.Tier, "transition", i))
		errs = append(errs, checkVerbs(t.Do, "transition", i)...)
	}

	for i, a := range d.Actions {
		if len(a.Do) == 0 {
			errs = append(errs, fmt.Errorf("%w: action %d: do is empty", ErrInvalidDocument, i))
		}

		errs = append(errs, checkTier(a.Tier, "action", i))
		errs = append(errs, checkVerbs(a.Do, "action", i)...)
	}

	return errors.Join(errs...)
}

// States returns every concrete state named by the document, in order of appearance.
func (d *Document) States() g.Slice[string] {
	seen := g.NewSet[string]()
	states := g.NewSlice[string]()

	add := func(s string) {
		if s == "" || s == Wildcard || seen.Contains(s) {
			return
		}

		seen.Insert(s)
		states.Push(s)
	}

	add(d.Initial)

	for _, t := range d.Transitions {
		add(t.From)
		add(t.To)
	}

	for _, a := range d.Actions {
		add(a.From)
		add(a.To)
	}

	return states
}

// Builder translates the document into a machine builder. Actions using the "log"
// verb write to logger.
func (d *Document) Builder(logger zerolog.Logger) *fsm.Builder[string, string] {
	b := fsm.NewBuilder[string, string]()

	for _, t := range d.Transitions {
		target := func(s, _ string) string { return s }
		to := match(t.From)

		if !t.Internal {
			target = func(string, string) string { return t.To }
			to = match(t.To)
		}

		b.AddTransition(fsm.Transition[string, string]{
			From:     match(t.From),
			Via:      match(t.On),
			Target:   target,
			Internal: t.Internal,
		})

		if len(t.Do) > 0 {
			b.AddActionBinding(fsm.ActionBinding[string, string]{
				From:   match(t.From),
				To:     to,
				Via:    match(t.On),
				Action: verbs(t.Do, logger),
				Tier:   tier(t.Tier),
			})
		}
	}

	for _, a := range d.Actions {
		b.AddActionBinding(fsm.ActionBinding[string, string]{
			From:   match(a.From),
			To:     match(a.To),
			Via:    match(a.Via),
			Action: verbs(a.Do, logger),
			Tier:   tier(a.Tier),
		})
	}

	return b
}

func match(v string) func(string) bool {
	if v == "" || v == Wildcard {
		return fsm.Any[string]()
	}

	return fsm.Is(v)
}

func checkTier(t, kind string, i int) error {
	switch strings.ToLower(t) {
	case "", "first", "normal", "last":
		return nil
	default:
		return fmt.Errorf("%w: %s %d: unknown tier %q", ErrInvalidDocument, kind, i, t)
	}
}

func tier(t string) fsm.Tier {
	switch strings.ToLower(t) {
	case "first":
		return fsm.TierFirst
	case "last":
		return fsm.TierLast
	default:
		return fsm.TierNormal
	}
}

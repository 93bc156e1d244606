package strategy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wesleyorama2/apibench/internal/model"
)

// Labels of the built-in strategies, in benchmark order.
const (
	LabelBasicGet         = "basic-get"
	LabelCancellableGet   = "cancellable-get"
	LabelStatusCheckedGet = "status-checked-get"
	LabelAPIErrorGet      = "api-error-get"
	LabelStreamGet        = "stream-get"
	LabelStreamHeadersGet = "stream-headers-get"
	LabelBasicPost        = "basic-post"
	LabelStreamPost       = "stream-post"
)

// GetFunc fetches and decodes the payload.
type GetFunc func(ctx context.Context) ([]model.Record, error)

// PostFunc encodes and submits payload.
type PostFunc func(ctx context.Context, payload any) error

// Strategy is one named call variant. Exactly one of Get and Post is set.
type Strategy struct {
	Label       string
	Description string
	Get         GetFunc
	Post        PostFunc
}

// IsPost reports whether the strategy submits a payload.
func (s Strategy) IsPost() bool {
	return s.Post != nil
}

// All returns every strategy bound to c, in benchmark order.
func All(c *Caller) []Strategy {
	return []Strategy{
		{Label: LabelBasicGet, Description: "GET, body read as text, status ignored", Get: c.BasicGet},
		{Label: LabelCancellableGet, Description: "GET with cancellation", Get: c.CancellableGet},
		{Label: LabelStatusCheckedGet, Description: "GET, fails fast on non-2xx", Get: c.StatusCheckedGet},
		{Label: LabelAPIErrorGet, Description: "GET, non-2xx returns status and body", Get: c.APIErrorGet},
		{Label: LabelStreamGet, Description: "GET, buffered bytes decoded from a reader", Get: c.StreamGet},
		{Label: LabelStreamHeadersGet, Description: "GET, decoded from the live body after headers", Get: c.StreamHeadersGet},
		{Label: LabelBasicPost, Description: "POST from an in-memory buffer", Post: c.BasicPost},
		{Label: LabelStreamPost, Description: "POST encoded through a pipe", Post: c.StreamPost},
	}
}

// Labels returns the label of every built-in strategy in benchmark order.
func Labels() []string {
	all := All(&Caller{})
	labels := make([]string, len(all))
	for i, s := range all {
		labels[i] = s.Label
	}
	return labels
}

// Select keeps the strategies named by labels, preserving the order of
// strategies. An empty labels slice selects everything.
func Select(strategies []Strategy, labels []string) ([]Strategy, error) {
	if len(labels) == 0 {
		return strategies, nil
	}

	wanted := make(map[string]bool, len(labels))
	for _, label := range labels {
		wanted[strings.ToLower(strings.TrimSpace(label))] = true
	}

	var selected []Strategy
	for _, s := range strategies {
		if wanted[s.Label] {
			selected = append(selected, s)
			delete(wanted, s.Label)
		}
	}

	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for label := range wanted {
			unknown = append(unknown, label)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown strategies %v (available: %s)", unknown, strings.Join(Labels(), ", "))
	}
	return selected, nil
}

// Lookup returns the strategy with the given label.
func Lookup(strategies []Strategy, label string) (Strategy, bool) {
	for _, s := range strategies {
		if s.Label == label {
			return s, true
		}
	}
	return Strategy{}, false
}

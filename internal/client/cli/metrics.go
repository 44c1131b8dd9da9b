package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

// Metrics prints the request and refresh counters collected this session.
func (a *App) Metrics(context.Context) error {
	snap, err := a.metrics.Snapshot()
	if err != nil {
		return err
	}

	if len(snap.Requests) == 0 {
		printlnFn("No requests yet.")
	}
	for _, k := range slices.Sorted(maps.Keys(snap.Requests)) {
		printlnFn(fmt.Sprintf("%-24s %6.0f", k, snap.Requests[k]))
	}
	for _, k := range slices.Sorted(maps.Keys(snap.RefreshByResult)) {
		printlnFn(fmt.Sprintf("%-24s %6.0f", "refresh "+k, snap.RefreshByResult[k]))
	}
	printlnFn(fmt.Sprintf("%-24s %6.0f", "retries", snap.Retries))
	printlnFn(fmt.Sprintf("%-24s %6.0f", "refresh waiters", snap.Waiters))
	return nil
}

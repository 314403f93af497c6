// Package journey tracks a single "current session" of user activity inside a
// host application and reports it to a remote collector.
//
// A session accumulates event counts, a bounded event sequence, error and
// crash flags and funnel-stage progression. It is persisted after every
// mutation so that it survives process restarts, and it is reported twice: a
// compact header when the session starts and the full tail when the next
// session starts.
//
// # Architecture
//
// A Journey orchestrates the session life-cycle. It relies on a Store to
// persist the current session and on a Reporter to ship headers and tails to
// the collector. Clock and IDGenerator are injectable so that tests can pin
// time and identity.
//
//	┌──────────┐  Initialize / Report*  ┌───────────┐
//	│   Host   │ ─────────────────────► │  Journey  │
//	└──────────┘                        └───────────┘
//	                                      │       │
//	                          load / save │       │ header / tail
//	                                      ▼       ▼
//	                               ┌───────┐   ┌──────────┐
//	                               │ Store │   │ Reporter │
//	                               └───────┘   └──────────┘
//
// All mutations of the current session are serialised through one mutex and
// the session is saved before the mutex is released. Network reports issued
// by Initialize run outside the critical section.
//
// # Usage
//
//	import (
//	    "github.com/dmitrymomot/journey/pkg/collector"
//	    "github.com/dmitrymomot/journey/pkg/journey"
//	)
//
//	j := journey.New(
//	    journey.WithReporter(collector.NewClient()),
//	    journey.WithStore(journey.NewFileStore(journey.DefaultStatePath(), nil, nil)),
//	)
//	j.Initialize(ctx, "acc", "app", "1.2.3", true)
//
//	_ = j.ReportEvent(ctx, "click_play", false)
//	_ = j.ReportEvent(ctx, "scroll_to_next_album", true)
//	_ = j.ReportStageTransition(ctx, 2, "engagement")
//
// # Error Handling
//
// Only caller mistakes are returned: a blank event or stage name, or a stage
// outside [1..10], yields an error wrapping ErrInvalidArgument. Store and
// Reporter failures are logged as warnings and swallowed, and calls made
// before Initialize are logged no-ops. Tracking never disrupts the host.
package journey

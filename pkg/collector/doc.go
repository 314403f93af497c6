// Package collector moves journey sessions over HTTP.
//
// Client implements journey.Reporter: it posts session headers to
// /session_head and session tails to /session_tail as JSON. Any non-2xx
// answer becomes an error carrying the status and the "err" field of the
// response body. Client does not retry; journey treats reporting as best
// effort.
//
// NewHandler is the receiving side: a chi router that validates the document
// envelope ("t" and "v" keys) and forwards accepted documents to a Sink. It
// backs cmd/journey-collector, a local stand-in for the real ingest service,
// and the tests of Client.
//
//	client := collector.NewClient(collector.WithBaseURL("http://localhost:8060"))
//	j := journey.New(journey.WithReporter(client))
//
//	sink := collector.NewMemorySink()
//	http.ListenAndServe(":8060", collector.NewHandler(sink))
package collector

// Package postmark provides a convenience client for the Postmark
// transactional-email HTTP API: sending single and batched template emails,
// listing server-side templates, and fetching the outbound message log.
//
// The client is a thin, stateless wrapper. Every operation validates its
// input, builds an authenticated request, performs the call, and reshapes
// the JSON response into a tabular RecordSet. No state is persisted between
// calls and no retries are attempted; transient failures are the caller's
// responsibility.
//
// # Basic Usage
//
//	cfg, err := postmark.LoadConfig() // reads POSTMARK_SERVER_TOKEN
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := postmark.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.SendTemplate(context.Background(), &postmark.TemplateMessage{
//		From:          "noreply@example.com",
//		To:            []string{"user@example.com"},
//		TemplateAlias: "welcome",
//		TemplateModel: map[string]any{"name": "Ada"},
//		MessageStream: postmark.StreamOutbound,
//	})
//
// # Batched Sends
//
// SendTemplateBatch expands a recipient list into one message per recipient,
// partitions them into groups of at most 500, and dispatches the groups
// sequentially. A failed group does not abort the batch: its failure is
// recorded in the returned BatchResult and later groups are still attempted.
//
// # Pagination
//
// The listing operations page through results in offset/count windows of at
// most 500 records per request and concatenate the pages in request order.
//
// # Features
//
//   - Explicit, per-client credential configuration (environment loading optional)
//   - Typed errors separating configuration, validation, API, and decode failures
//   - Distributed tracing with OpenTelemetry
//   - Prometheus request metrics and zerolog request logging
//   - Context-aware operations
package postmark

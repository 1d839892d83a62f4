package postmark

import (
	"context"
)

// Interface defines the operations exposed by the Postmark client. Consumers
// can depend on it instead of *Client to swap in fakes.
// All methods are safe for concurrent use.
type Interface interface {
	// SendTemplate sends one email populated from a server-side template.
	SendTemplate(ctx context.Context, msg *TemplateMessage) (*RecordSet, error)

	// SendTemplateBatch sends one templated email per recipient in groups
	// of at most BatchGroupSize. Per-group failures are reported in the
	// result, not as an error.
	SendTemplateBatch(ctx context.Context, batch *TemplateBatch) (*BatchResult, error)

	// ListTemplates fetches the server's templates.
	ListTemplates(ctx context.Context, opts ListTemplatesOptions) (*RecordSet, error)

	// ListOutboundMessages fetches the outbound message log.
	ListOutboundMessages(ctx context.Context, opts OutboundMessagesOptions) (*RecordSet, error)
}

package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Limits imposed by the Postmark API on outbound sends.
const (
	// MaxRecipients is the most recipients a single templated send accepts.
	MaxRecipients = 50

	// MaxTagLength is the longest tag string the API accepts.
	MaxTagLength = 1000
)

// MessageStream identifies the Postmark routing lane for outbound mail.
type MessageStream string

const (
	// StreamOutbound is the transactional message stream.
	StreamOutbound MessageStream = "outbound"

	// StreamBroadcast is the marketing message stream.
	StreamBroadcast MessageStream = "broadcast"
)

// String returns the string representation of the message stream.
func (s MessageStream) String() string {
	return string(s)
}

// Valid reports whether the stream is one of the supported lanes.
// The empty value is valid and means the server default ("outbound").
func (s MessageStream) Valid() bool {
	switch s {
	case "", StreamOutbound, StreamBroadcast:
		return true
	default:
		return false
	}
}

// TemplateMessage describes a single templated send.
type TemplateMessage struct {
	// From is the sender address.
	From string

	// To contains the recipient addresses. At most MaxRecipients.
	To []string

	// TemplateID is the numeric identifier of a server-side template.
	// Exactly one of TemplateID and TemplateAlias must be set.
	TemplateID int64

	// TemplateAlias is the alias of a server-side template.
	TemplateAlias string

	// TemplateModel contains the variable substitution map for the template.
	TemplateModel map[string]any

	// TrackOpens enables open tracking for this message.
	TrackOpens bool

	// MessageStream selects the routing lane. Empty means "outbound".
	MessageStream MessageStream

	// Tag is an optional categorization tag, at most MaxTagLength characters.
	Tag string
}

// Validate checks the message before any network activity.
func (m *TemplateMessage) Validate() error {
	if strings.TrimSpace(m.From) == "" {
		return &ValidationError{Field: "from", Message: "sender address is required"}
	}

	if len(m.To) == 0 {
		return &ValidationError{Field: "to", Message: "at least one recipient required"}
	}

	if len(m.To) > MaxRecipients {
		return &ValidationError{
			Field:   "to",
			Message: "at most " + strconv.Itoa(MaxRecipients) + " recipients per message",
			Value:   len(m.To),
		}
	}

	for i, to := range m.To {
		if strings.TrimSpace(to) == "" {
			return &ValidationError{
				Field:   "to",
				Message: "empty recipient address at index " + strconv.Itoa(i),
			}
		}
	}

	if err := validateTemplateRef(m.TemplateID, m.TemplateAlias); err != nil {
		return err
	}

	if !m.MessageStream.Valid() {
		return &ValidationError{
			Field:   "message_stream",
			Message: `must be one of "outbound" or "broadcast"`,
			Value:   string(m.MessageStream),
		}
	}

	return validateTag(m.Tag)
}

// Payload converts the message into its wire representation. Recipients are
// joined into the comma-separated form the single-send endpoint expects.
func (m *TemplateMessage) Payload() TemplatedEmail {
	return TemplatedEmail{
		From:          m.From,
		To:            strings.Join(m.To, ","),
		TemplateID:    m.TemplateID,
		TemplateAlias: m.TemplateAlias,
		TemplateModel: m.TemplateModel,
		TrackOpens:    m.TrackOpens,
		MessageStream: string(m.MessageStream),
		Tag:           m.Tag,
	}
}

// TemplateBatch describes a templated send to an arbitrary number of
// recipients. Each recipient becomes its own wire message so the batch
// endpoint bills and reports them individually.
type TemplateBatch struct {
	// From is the sender address shared by all messages.
	From string

	// Recipients contains one address per outbound message.
	Recipients []string

	// TemplateID is the numeric identifier of a server-side template.
	// Exactly one of TemplateID and TemplateAlias must be set.
	TemplateID int64

	// TemplateAlias is the alias of a server-side template.
	TemplateAlias string

	// TemplateModel is the substitution map shared by all messages.
	// Ignored for a recipient that has an entry in TemplateModels.
	TemplateModel map[string]any

	// TemplateModels optionally carries one substitution map per recipient.
	// When set, its length must equal len(Recipients).
	TemplateModels []map[string]any

	// TrackOpens enables open tracking for all messages.
	TrackOpens bool

	// MessageStream selects the routing lane. Empty means "outbound".
	MessageStream MessageStream

	// Tag is an optional categorization tag, at most MaxTagLength characters.
	Tag string
}

// Validate checks the batch before any network activity.
func (b *TemplateBatch) Validate() error {
	if strings.TrimSpace(b.From) == "" {
		return &ValidationError{Field: "from", Message: "sender address is required"}
	}

	if len(b.Recipients) == 0 {
		return &ValidationError{Field: "recipients", Message: "at least one recipient required"}
	}

	for i, to := range b.Recipients {
		if strings.TrimSpace(to) == "" {
			return &ValidationError{
				Field:   "recipients",
				Message: "empty recipient address at index " + strconv.Itoa(i),
			}
		}
	}

	if err := validateTemplateRef(b.TemplateID, b.TemplateAlias); err != nil {
		return err
	}

	if len(b.TemplateModels) > 0 && len(b.TemplateModels) != len(b.Recipients) {
		return &ValidationError{
			Field:   "template_models",
			Message: "must match the number of recipients",
			Value:   fmt.Sprintf("%d models for %d recipients", len(b.TemplateModels), len(b.Recipients)),
		}
	}

	if !b.MessageStream.Valid() {
		return &ValidationError{
			Field:   "message_stream",
			Message: `must be one of "outbound" or "broadcast"`,
			Value:   string(b.MessageStream),
		}
	}

	return validateTag(b.Tag)
}

// Expand replicates the shared fields across one wire message per recipient,
// preserving recipient order.
func (b *TemplateBatch) Expand() []TemplatedEmail {
	out := make([]TemplatedEmail, 0, len(b.Recipients))
	for i, rcpt := range b.Recipients {
		model := b.TemplateModel
		if len(b.TemplateModels) > 0 {
			model = b.TemplateModels[i]
		}
		out = append(out, TemplatedEmail{
			From:          b.From,
			To:            rcpt,
			TemplateID:    b.TemplateID,
			TemplateAlias: b.TemplateAlias,
			TemplateModel: model,
			TrackOpens:    b.TrackOpens,
			MessageStream: string(b.MessageStream),
			Tag:           b.Tag,
		})
	}
	return out
}

func validateTemplateRef(id int64, alias string) error {
	if id == 0 && alias == "" {
		return &ValidationError{Field: "template", Message: "a template id or alias is required"}
	}
	if id != 0 && alias != "" {
		return &ValidationError{Field: "template", Message: "template id and alias are mutually exclusive"}
	}
	if id < 0 {
		return &ValidationError{Field: "template", Message: "template id must be positive", Value: id}
	}
	return nil
}

func validateTag(tag string) error {
	if len(tag) > MaxTagLength {
		return &ValidationError{
			Field:   "tag",
			Message: "must be at most " + strconv.Itoa(MaxTagLength) + " characters",
			Value:   len(tag),
		}
	}
	return nil
}

// TemplatedEmail is the wire representation of one templated message.
// Field names follow the Postmark JSON schema.
type TemplatedEmail struct {
	From          string         `json:"From"`
	To            string         `json:"To"`
	TemplateID    int64          `json:"TemplateId,omitempty"`
	TemplateAlias string         `json:"TemplateAlias,omitempty"`
	TemplateModel map[string]any `json:"TemplateModel,omitempty"`
	TrackOpens    bool           `json:"TrackOpens"`
	MessageStream string         `json:"MessageStream,omitempty"`
	Tag           string         `json:"Tag,omitempty"`
}

// BatchPayload is the request body of the batch send endpoint.
type BatchPayload struct {
	Messages []TemplatedEmail `json:"Messages"`
}

// Record is one decoded row of an API response, keyed by API field name.
type Record map[string]any

// RecordSet is an ordered tabular result. Rows keep request order; Columns is
// the lexically sorted union of the field names seen across all rows.
type RecordSet struct {
	Columns []string
	Rows    []Record

	seen map[string]struct{}
}

// NewRecordSet returns an empty record set.
func NewRecordSet() *RecordSet {
	return &RecordSet{seen: make(map[string]struct{})}
}

// Len returns the number of rows.
func (rs *RecordSet) Len() int {
	return len(rs.Rows)
}

// Add appends a row and folds its field names into the column list.
func (rs *RecordSet) Add(row Record) {
	if rs.seen == nil {
		rs.seen = make(map[string]struct{}, len(rs.Columns))
		for _, c := range rs.Columns {
			rs.seen[c] = struct{}{}
		}
	}

	changed := false
	for k := range row {
		if _, ok := rs.seen[k]; !ok {
			rs.seen[k] = struct{}{}
			rs.Columns = append(rs.Columns, k)
			changed = true
		}
	}
	if changed {
		sort.Strings(rs.Columns)
	}

	rs.Rows = append(rs.Rows, row)
}

// Append folds all rows of another record set into this one, preserving
// their order.
func (rs *RecordSet) Append(other *RecordSet) {
	if other == nil {
		return
	}
	for _, row := range other.Rows {
		rs.Add(row)
	}
}

// BatchResult is the combined outcome of a batched send. Per-group failures
// are data, not errors: rows from successful groups are concatenated in group
// order and failed groups are listed in Failed.
type BatchResult struct {
	// Messages is the total number of messages attempted.
	Messages int

	// Groups is the number of wire requests the batch was partitioned into.
	Groups int

	// Rows holds the per-message API responses of the successful groups.
	Rows *RecordSet

	// Failed lists the groups whose request failed outright.
	Failed []GroupFailure
}

// Sent returns the number of messages that reached the API.
func (r *BatchResult) Sent() int {
	n := r.Messages
	for _, f := range r.Failed {
		n -= f.Messages
	}
	return n
}

// GroupFailure records a batch group whose request failed.
type GroupFailure struct {
	// Group is the zero-based index of the failed group.
	Group int

	// Messages is the number of messages the group carried.
	Messages int

	// Err is the transport or API error for the group.
	Err error
}

// ValidationError represents a validation error with specific field information.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string

	// Message is the validation error message.
	Message string

	// Value is the invalid value (optional).
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error in %s: %s (value: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// Is implements error matching for errors.Is.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// APIError represents a non-2xx response from the Postmark API.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// ErrorCode is Postmark's error code when the error body decoded.
	ErrorCode int

	// Message is Postmark's error message, or the raw HTTP status.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.ErrorCode > 0 {
		return fmt.Sprintf("postmark API error (status %d, code %d): %s",
			e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("postmark API error (status %d): %s", e.StatusCode, e.Message)
}

// Is implements error matching for errors.Is.
func (e *APIError) Is(target error) bool {
	_, ok := target.(*APIError)
	return ok
}

// DecodeError represents a response body that was not the expected JSON shape.
type DecodeError struct {
	// Endpoint is the API path whose response failed to decode.
	Endpoint string

	// Cause is the underlying decoding error.
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error for %s: %v", e.Endpoint, e.Cause)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewValidationErrorWithValue creates a new validation error with a value.
func NewValidationErrorWithValue(field, message string, value any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewAPIError creates a new API error.
func NewAPIError(statusCode, errorCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewDecodeError creates a new decode error.
func NewDecodeError(endpoint string, cause error) *DecodeError {
	return &DecodeError{
		Endpoint: endpoint,
		Cause:    cause,
	}
}

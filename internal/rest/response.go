package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/lattiq/postmark/internal/core"
)

// errorBody mirrors Postmark's JSON error envelope.
type errorBody struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

// Normalize checks the response status and converts the JSON body into a
// tabular record set. A status of 400 or above yields an APIError carrying
// Postmark's error code and message when the body decodes, else the raw
// HTTP status. The response body is always consumed and closed.
func Normalize(resp *http.Response, endpoint string) (*core.RecordSet, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewDecodeError(endpoint, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
			return nil, core.NewAPIError(resp.StatusCode, eb.ErrorCode, eb.Message)
		}
		return nil, core.NewAPIError(resp.StatusCode, 0, resp.Status)
	}

	return Tabulate(body, endpoint)
}

// Tabulate decodes a JSON object or array of objects into a record set.
// List envelopes ("TotalCount" beside a single array field, as returned by
// the template and outbound-message listings) are unwrapped so each element
// becomes one row. A bare object becomes a single row.
func Tabulate(body []byte, endpoint string) (*core.RecordSet, error) {
	rs := core.NewRecordSet()

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return rs, nil
	}

	switch trimmed[0] {
	case '[':
		var rows []core.Record
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, core.NewDecodeError(endpoint, err)
		}
		for _, row := range rows {
			rs.Add(row)
		}
		return rs, nil

	case '{':
		var obj core.Record
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, core.NewDecodeError(endpoint, err)
		}
		if rows, ok := unwrapEnvelope(obj); ok {
			for _, row := range rows {
				rs.Add(row)
			}
			return rs, nil
		}
		rs.Add(obj)
		return rs, nil

	default:
		return nil, core.NewDecodeError(endpoint, errNotJSON)
	}
}

var errNotJSON = jsonShapeError("body is not a JSON object or array")

type jsonShapeError string

func (e jsonShapeError) Error() string { return string(e) }

// unwrapEnvelope extracts the row array from a Postmark list envelope.
// The envelope always carries a TotalCount field next to exactly one
// array-valued field holding the rows.
func unwrapEnvelope(obj core.Record) ([]core.Record, bool) {
	if _, ok := obj["TotalCount"]; !ok {
		return nil, false
	}

	for key, val := range obj {
		if key == "TotalCount" {
			continue
		}
		items, ok := val.([]any)
		if !ok {
			continue
		}
		rows := make([]core.Record, 0, len(items))
		for _, item := range items {
			row, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			rows = append(rows, core.Record(row))
		}
		return rows, true
	}
	return nil, false
}

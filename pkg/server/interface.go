/*
Package server implements msgpack IPC for the spelling checker.

The server reads msgpack values from stdin and writes one msgpack response per request to
stdout. Logs go to stderr so they never interleave with the protocol.

# IPC

Every request carries an ID that is echoed back and an action. A check request sends the
text as independent blocks, each with its offset in the document:

	{"id": "req_001", "action": "check",
	 "blocks": [{"id": "b1", "text": "Teh quick foxx", "from": 0, "to": 14}],
	 "exceptions": ["wordcheck"]}

Findings come back in block order with rune offsets relative to the document:

	{"id": "req_001", "status": "ok", "findings": [
	  {"block_id": "b1", "from": 0, "to": 3, "matched_text": "Teh",
	   "rule_id": "MORFOLOGIK_RULE_COLLINS", "suggestions": ["the"], ...}], "t": 310}

Single word suggestions and exception management:

	{"id": "s1", "action": "suggest", "word": "recieve", "limit": 3}
	{"id": "e1", "action": "add_exception", "word": "kubectl"}
	{"id": "e2", "action": "remove_exception", "exceptions": ["kubectl", "k8s"]}
	{"id": "e3", "action": "list_exceptions"}
	{"id": "x1", "action": "stats"}
	{"id": "x2", "action": "health"}

A failed request is answered with status "error" and a message; the server keeps running.
The "t" field is the handling time in microseconds.
*/
package server

import "github.com/bastiangx/wordcheck/pkg/rule"

const (
	ActionCheck           = "check"
	ActionSuggest         = "suggest"
	ActionAddException    = "add_exception"
	ActionRemoveException = "remove_exception"
	ActionListExceptions  = "list_exceptions"
	ActionStats           = "stats"
	ActionHealth          = "health"

	StatusOK    = "ok"
	StatusError = "error"
	StatusReady = "ready"
)

// Block is one independently checked piece of text. From is its rune offset in the
// document; To is optional and only validated when set.
type Block struct {
	ID   string `msgpack:"id"`
	Text string `msgpack:"text"`
	From int    `msgpack:"from"`
	To   int    `msgpack:"to,omitempty"`
}

// Request is a client message.
type Request struct {
	ID     string  `msgpack:"id"`
	Action string  `msgpack:"action"`
	Blocks []Block `msgpack:"blocks,omitempty"`
	// Exceptions are extra known words for a check request, or the words to add or
	// remove for the exception actions.
	Exceptions []string `msgpack:"exceptions,omitempty"`
	Word       string   `msgpack:"word,omitempty"`
	Limit      int      `msgpack:"limit,omitempty"`
}

// BlockFinding is a rule finding tagged with the block it came from.
type BlockFinding struct {
	BlockID string `msgpack:"block_id"`
	rule.Finding
}

// Response answers one Request.
type Response struct {
	ID          string         `msgpack:"id"`
	Status      string         `msgpack:"status"`
	Error       string         `msgpack:"error,omitempty"`
	Findings    []BlockFinding `msgpack:"findings,omitempty"`
	Suggestions []string       `msgpack:"suggestions,omitempty"`
	Words       []string       `msgpack:"words,omitempty"`
	Stats       map[string]int `msgpack:"stats,omitempty"`
	TimeTaken   int64          `msgpack:"t"`
}

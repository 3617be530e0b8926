package ctlserver

import (
	"fmt"
	"strings"
)

// Wire format: one request line per connection, fields separated by tabs,
// reply is the raw result string. For operations whose final field is
// free-form text (key input, titles) the last field absorbs the rest of the
// line, tabs included.
const (
	OpCreatePane      = "create_pane"
	OpSendKeys        = "send_keys"
	OpSendInterrupt   = "send_interrupt"
	OpKillPane        = "kill_pane"
	OpListPanes       = "list_panes"
	OpSetPaneInfo     = "set_pane_info"
	OpHasSession      = "has_session"
	OpRegisterSession = "register_session"
	OpRebalance       = "rebalance"
)

// fixedArgs maps each operation to the number of leading tab-separated
// fields before the optional rest-of-line field.
var fixedArgs = map[string]int{
	OpCreatePane:      1,
	OpSendKeys:        1, // id, then rest-of-line text
	OpSendInterrupt:   1,
	OpKillPane:        1,
	OpListPanes:       0,
	OpSetPaneInfo:     2, // id, color, then rest-of-line title
	OpHasSession:      1,
	OpRegisterSession: 1,
	OpRebalance:       0,
}

// restOfLine marks operations whose last argument may contain tabs.
var restOfLine = map[string]bool{
	OpSendKeys:    true,
	OpSetPaneInfo: true,
}

// request is one decoded control call.
type request struct {
	op   string
	args []string
	rest string
}

// parseRequest decodes a single request line. Absent fields decode to empty
// strings: an empty name spawns an anonymous pane and an empty id is handled
// by the registry like any other unknown id.
func parseRequest(line string) (request, error) {
	line = strings.TrimRight(line, "\r\n")
	op, remainder, _ := strings.Cut(line, "\t")

	n, known := fixedArgs[op]
	if !known {
		return request{}, fmt.Errorf("unknown operation %q", op)
	}

	req := request{op: op}
	for i := 0; i < n; i++ {
		field, rest, found := strings.Cut(remainder, "\t")
		req.args = append(req.args, field)
		remainder = rest
		if !found {
			remainder = ""
		}
	}
	if restOfLine[op] {
		req.rest = remainder
	}
	return req, nil
}

package hostbridge

import (
	"encoding/json"
	"strings"
)

// Callback names sent to the host.
const (
	CallbackInfoBoxSet    = ":INFOBOX:SET:"
	CallbackInfoBoxRemove = ":INFOBOX:REMOVE:"
	CallbackHintSet       = ":HINT:SET:"
	CallbackHintClear     = ":HINT:CLEAR:"
	CallbackChat          = ":CHAT:"
	CallbackClipboard     = ":CLIPBOARD:"
	CallbackReady         = ":EXT:READY:"
	CallbackVersion       = ":VERSION:"
)

// CommandTimestamp is answered by the bridge itself.
const CommandTimestamp = ":TIMESTAMP:"

// Response statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Command is one line read from the host.
type Command struct {
	Command string            `json:"command"`
	Args    []json.RawMessage `json:"args"`
}

// StringArgs flattens the arguments to the positional strings the parser
// expects. Strings are unquoted; numbers, arrays and objects keep their JSON
// text; null becomes an empty string.
func (c Command) StringArgs() []string {
	out := make([]string, len(c.Args))
	for i, raw := range c.Args {
		text := strings.TrimSpace(string(raw))
		switch {
		case text == "null":
			out[i] = ""
		case strings.HasPrefix(text, `"`):
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				out[i] = s
				continue
			}
			out[i] = text
		default:
			out[i] = text
		}
	}
	return out
}

// Callback is one side-effect line written to the host.
type Callback struct {
	Callback string `json:"callback"`
	Args     []any  `json:"args"`
}
